package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/usecase"
)

const defaultWatchInterval = 15 * time.Second

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}
		return workspaceRefreshedMsg{cwd: wd, found: true, root: root}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}
		uc := usecase.NewInitWorkspace(deps.WorkspaceInitializer, deps.Logger)
		res, err := uc.Execute(domain.WorkspaceSpec{Root: root, Cycles: deps.Cycles}, false)
		return initWorkspaceDoneMsg{root: root, result: res, err: err}
	}
}

func cmdTouchSession(deps Deps) tea.Cmd {
	if deps.Guard == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionTouchedMsg{err: deps.Guard.Touch()}
	}
}

// watchSession runs the idle watcher for the lifetime of the program and
// reports expiry as a sessionExpiredMsg. stop cancels it and waits for it.
func watchSession(deps Deps, send func(tea.Msg)) (stop func()) {
	if deps.Guard == nil {
		return func() {}
	}
	interval := deps.WatchInterval
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := deps.Guard.Watch(ctx, interval, func() {
			send(sessionExpiredMsg{idle: deps.Guard.Timeout()})
		})
		if err != nil && !errors.Is(err, context.Canceled) && deps.Logger != nil {
			deps.Logger.Warn("session.watch_stopped", "err", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
