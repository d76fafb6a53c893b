package ports

import "github.com/alignedworks/cvx/internal/domain"

// SessionStore remembers the login between runs. Load on an empty store
// returns the zero (logged out) session.
type SessionStore interface {
	Load() (domain.Session, error)
	Save(s domain.Session) error
	Clear() error
}
