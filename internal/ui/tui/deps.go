package tui

import (
	"log/slog"
	"time"

	"github.com/alignedworks/cvx/internal/ports"
	"github.com/alignedworks/cvx/internal/usecase"
)

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	// Guard is nil outside a workspace; the shell then runs without a session.
	Guard *usecase.SessionGuard
	// WatchInterval is how often Guard polls for idle expiry.
	WatchInterval time.Duration

	// Cycles is the default number of release cycles to project.
	Cycles int

	Logger *slog.Logger
	Debug  bool
}
