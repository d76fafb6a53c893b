package tui

import (
	"time"

	"github.com/alignedworks/cvx/internal/domain"
)

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root   string
	result domain.InitResult
	err    error
}

// sessionExpiredMsg is posted by the session watcher once the stored
// session has idled out and been cleared.
type sessionExpiredMsg struct {
	idle time.Duration
}

type sessionTouchedMsg struct {
	err error
}
