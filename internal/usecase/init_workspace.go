package usecase

import (
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
	"github.com/alignedworks/cvx/internal/tokenmath"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
	log         *slog.Logger
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer, log *slog.Logger) *InitWorkspace {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &InitWorkspace{initializer: initializer, log: log}
}

// Execute checks the requested settings and scaffolds cvx.yaml plus the .cvx
// state directory under spec.Root.
func (uc *InitWorkspace) Execute(spec domain.WorkspaceSpec, force bool) (domain.InitResult, error) {
	const op = "usecase.init_workspace"

	if strings.TrimSpace(spec.Root) == "" {
		return domain.InitResult{}, invalid(op, "workspace root is required")
	}
	if raw := strings.TrimSpace(spec.APIBaseURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return domain.InitResult{}, invalid(op, "api url %q must be an absolute http(s) url", raw)
		}
	}
	if spec.IdleTimeout < 0 {
		return domain.InitResult{}, invalid(op, "idle timeout must not be negative")
	}
	if spec.Cycles < 0 || spec.Cycles > tokenmath.MaxCycleCount {
		return domain.InitResult{}, invalid(op, "cycles must be between 0 and %d", tokenmath.MaxCycleCount)
	}

	res, err := uc.initializer.Init(spec, force)
	if err != nil {
		return res, err
	}
	uc.log.Info("workspace.initialized", "root", spec.Root, "written", res.Written, "kept", res.Kept, "force", force)
	return res, nil
}
