package ports

import "github.com/alignedworks/cvx/internal/domain"

// WorkspaceInitializer scaffolds cvx.yaml and the private .cvx directory.
type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) (domain.InitResult, error)
}
