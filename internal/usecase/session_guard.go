package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
)

// SessionGuard enforces the idle timeout on the stored session.
//
// An expired session is cleared the first time it is observed, so the next
// command behaves as logged out. A zero timeout disables expiry.
type SessionGuard struct {
	store   ports.SessionStore
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

// GuardOption configures a SessionGuard.
type GuardOption func(*SessionGuard)

// WithClock replaces time.Now; tests pass a fake clock.
func WithClock(now func() time.Time) GuardOption {
	return func(g *SessionGuard) {
		if now != nil {
			g.now = now
		}
	}
}

// WithGuardLogger logs session.expired events to l.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *SessionGuard) {
		if l != nil {
			g.log = l
		}
	}
}

// NewSessionGuard guards the session in store with the given idle timeout.
func NewSessionGuard(store ports.SessionStore, timeout time.Duration, opts ...GuardOption) *SessionGuard {
	g := &SessionGuard{
		store:   store,
		timeout: timeout,
		now:     time.Now,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Timeout is the configured idle timeout; zero means sessions never expire.
func (g *SessionGuard) Timeout() time.Duration { return g.timeout }

// Current returns the live session or a session_expired / unauthorized error.
func (g *SessionGuard) Current() (domain.Session, error) {
	s, err := g.store.Load()
	if err != nil {
		return domain.Session{}, err
	}
	if !s.Active() {
		return domain.Session{}, &domain.OpError{Op: "session.current", Kind: domain.KindUnauthorized, Err: domain.ErrNoSession}
	}
	if s.Expired(g.now(), g.timeout) {
		if err := g.expire(s); err != nil {
			return domain.Session{}, err
		}
		return domain.Session{}, &domain.OpError{Op: "session.current", Kind: domain.KindSessionExpired, Err: domain.ErrSessionExpired}
	}
	return s, nil
}

// Touch records activity on a live session.
func (g *SessionGuard) Touch() error {
	s, err := g.Current()
	if err != nil {
		return err
	}
	s.Touch(g.now())
	return g.store.Save(s)
}

// Check reports whether a previously live session has now expired, clearing
// it when it has. A missing session is not an expiry.
func (g *SessionGuard) Check() (bool, error) {
	_, err := g.Current()
	switch {
	case err == nil:
		return false, nil
	case domain.IsKind(err, domain.KindSessionExpired):
		return true, nil
	case domain.IsKind(err, domain.KindUnauthorized):
		return false, nil
	default:
		return false, err
	}
}

// Watch polls the session every interval until it expires or ctx is done.
// onExpire runs once on expiry, then Watch returns nil.
func (g *SessionGuard) Watch(ctx context.Context, interval time.Duration, onExpire func()) error {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			expired, err := g.Check()
			if err != nil {
				g.log.Warn("session.check_failed", "err", err)
				continue
			}
			if expired {
				if onExpire != nil {
					onExpire()
				}
				return nil
			}
		}
	}
}

func (g *SessionGuard) expire(s domain.Session) error {
	g.log.Info("session.expired",
		"user", s.User.Email,
		"last_active_at", s.LastActiveAt,
		"idle_timeout", g.timeout.String(),
	)
	return g.store.Clear()
}
