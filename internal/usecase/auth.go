package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
)

type Login struct {
	auth  ports.AuthAPI
	store ports.SessionStore
	now   func() time.Time
}

func NewLogin(auth ports.AuthAPI, store ports.SessionStore) *Login {
	return &Login{auth: auth, store: store, now: time.Now}
}

// Execute signs in and stores the new session, replacing any previous one.
func (uc *Login) Execute(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return domain.Session{}, &domain.OpError{
			Op:   "auth.login",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%w: email and password are required", domain.ErrInvalidRequest),
		}
	}

	user, cookies, err := uc.auth.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, err
	}

	var s domain.Session
	s.Login(user, cookies, uc.now())
	if err := uc.store.Save(s); err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

type Logout struct {
	auth  ports.AuthAPI
	store ports.SessionStore
	log   *slog.Logger
}

func NewLogout(auth ports.AuthAPI, store ports.SessionStore, log *slog.Logger) *Logout {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Logout{auth: auth, store: store, log: log}
}

// Execute ends the remote session when one is stored and always clears the
// local one. A failed remote logout is logged, not returned.
func (uc *Logout) Execute(ctx context.Context) error {
	s, err := uc.store.Load()
	if err != nil {
		return err
	}
	if s.Active() && uc.auth != nil {
		if err := uc.auth.Logout(ctx); err != nil {
			uc.log.Warn("auth.logout_failed", "err", err)
		}
	}
	return uc.store.Clear()
}

// Identity is what whoami reports.
type Identity struct {
	User      domain.User `json:"user"`
	LoginAt   time.Time   `json:"loginAt"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
	Verified  bool        `json:"verified"`
}

type WhoAmI struct {
	guard *SessionGuard
	auth  ports.AuthAPI
}

// NewWhoAmI reports the signed-in user. auth may be nil for a local-only check.
func NewWhoAmI(guard *SessionGuard, auth ports.AuthAPI) *WhoAmI {
	return &WhoAmI{guard: guard, auth: auth}
}

// Execute returns the stored identity. With verify set the server is asked
// too, and its answer replaces the stored user.
func (uc *WhoAmI) Execute(ctx context.Context, verify bool) (Identity, error) {
	s, err := uc.guard.Current()
	if err != nil {
		return Identity{}, err
	}
	id := Identity{User: *s.User, LoginAt: s.LoginAt}
	if exp := s.ExpiresAt(uc.guard.Timeout()); !exp.IsZero() {
		id.ExpiresAt = &exp
	}
	if !verify || uc.auth == nil {
		return id, nil
	}
	u, err := uc.auth.Me(ctx)
	if err != nil {
		return Identity{}, err
	}
	id.User, id.Verified = u, true
	return id, nil
}
