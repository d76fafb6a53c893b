package domain

import "time"

// Config represents the cvx workspace configuration loaded from cvx.yaml.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Preview PreviewConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	// IdleTimeout logs the user out after this long without activity. Zero disables it.
	IdleTimeout time.Duration
	File        string
}

type PreviewConfig struct {
	Cycles int
}

// DefaultConfig provides sane defaults if cvx.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
			File:        ".cvx/session.json",
		},
		Preview: PreviewConfig{Cycles: 3},
	}
}

// WorkspaceSpec describes a workspace to scaffold. Zero fields take the
// DefaultConfig values.
type WorkspaceSpec struct {
	Root        string
	APIBaseURL  string
	IdleTimeout time.Duration
	Cycles      int
}

// InitResult lists the workspace files written and the ones left untouched.
type InitResult struct {
	Written []string
	Kept    []string
}
