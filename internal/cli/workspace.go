package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alignedworks/cvx/internal/buildinfo"
	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/infra/cvxapi"
	"github.com/alignedworks/cvx/internal/infra/httpclient"
	"github.com/alignedworks/cvx/internal/infra/logger"
	"github.com/alignedworks/cvx/internal/infra/sessionstore"
	"github.com/alignedworks/cvx/internal/infra/workspacefinder"
	"github.com/alignedworks/cvx/internal/ports"
	"github.com/alignedworks/cvx/internal/usecase"
)

type workspaceCtx struct {
	// root is empty when no workspace was found and defaults are in use.
	root string
	cfg  domain.Config

	sessions ports.SessionStore
	guard    *usecase.SessionGuard
}

// loadWorkspace resolves the workspace and wires the session store. When
// required is false a missing workspace falls back to DefaultConfig, which is
// enough for offline previews.
func loadWorkspace(workspaceFlag string, required bool) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	var cfg domain.Config
	if err == nil {
		cfg, err = workspacefinder.LoadConfig(root)
	}
	if err != nil {
		var oe *domain.OpError
		missing := !errors.As(err, &oe) || oe.Kind == domain.KindNotFound
		if required || !missing {
			return nil, err
		}
		return &workspaceCtx{cfg: domain.DefaultConfig()}, nil
	}

	store := sessionstore.NewFileStore(root, cfg.Session.File)
	return &workspaceCtx{
		root:     root,
		cfg:      cfg,
		sessions: store,
		guard:    usecase.NewSessionGuard(store, cfg.Session.IdleTimeout, usecase.WithGuardLogger(logger.L())),
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `cvx init`): %w", wd, err)
	}
	return root, nil
}

func (ws *workspaceCtx) newAPI(cookies []domain.Cookie) (*cvxapi.Client, error) {
	hc := httpclient.ConfigFor(ws.cfg.API, buildinfo.UserAgent())
	exec := httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(hc)),
		httpclient.WithTimeout(ws.cfg.API.Timeout),
	)
	return cvxapi.New(ws.cfg.API.BaseURL,
		cvxapi.WithExecutor(exec),
		cvxapi.WithLogger(logger.L()),
		cvxapi.WithCookies(cookies),
	)
}

// sessionAPI returns a client carrying the stored auth cookies. It fails
// with a login tip when the session is missing or idle-expired.
func (ws *workspaceCtx) sessionAPI() (*cvxapi.Client, error) {
	if ws.guard == nil {
		return nil, fmt.Errorf("no workspace to keep a session in (tip: run `cvx init`): %w", domain.ErrNoSession)
	}
	s, err := ws.guard.Current()
	if err != nil {
		if domain.IsKind(err, domain.KindSessionExpired) {
			return nil, fmt.Errorf("%w (tip: run `cvx login` again)", err)
		}
		return nil, fmt.Errorf("%w (tip: run `cvx login`)", err)
	}
	return ws.newAPI(s.Cookies)
}

// remember records activity after an authenticated command and keeps any
// cookie the server rotated. A 401 drops the stale session.
func (ws *workspaceCtx) remember(api *cvxapi.Client, callErr error) {
	if ws.guard == nil {
		return
	}
	var re *domain.RemoteError
	if errors.As(callErr, &re) && re.Status == http.StatusUnauthorized {
		if err := ws.sessions.Clear(); err != nil {
			logger.L().Warn("session.clear_failed", "err", err)
		}
		return
	}

	s, err := ws.sessions.Load()
	if err != nil || !s.Active() {
		return
	}
	s.Touch(time.Now())
	if ck := api.Cookies(); len(ck) > 0 {
		s.Cookies = ck
	}
	if err := ws.sessions.Save(s); err != nil {
		logger.L().Warn("session.save_failed", "err", err)
	}
}

// withSession runs fn with an authenticated client and records the activity.
func withSession(opts *rootOptions, fn func(ws *workspaceCtx, api *cvxapi.Client) error) error {
	ws, err := loadWorkspace(opts.workspace, true)
	if err != nil {
		return err
	}
	api, err := ws.sessionAPI()
	if err != nil {
		return err
	}
	err = fn(ws, api)
	ws.remember(api, err)
	return err
}

func (ws *workspaceCtx) cycles() int {
	return ws.cfg.Preview.Cycles
}
