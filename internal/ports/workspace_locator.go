package ports

// WorkspaceLocator walks up from startDir to the directory holding cvx.yaml.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}
