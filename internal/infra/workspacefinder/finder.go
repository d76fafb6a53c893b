package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alignedworks/cvx/internal/domain"
)

// EnvVar pins the workspace root regardless of the working directory.
const EnvVar = "CVX_WORKSPACE"

// Finder locates the directory holding cvx.yaml: $CVX_WORKSPACE when set,
// otherwise the nearest ancestor of the start directory.
type Finder struct {
	getenv func(string) string
}

func NewFinder() *Finder {
	return &Finder{getenv: os.Getenv}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	const op = "workspacefinder.findroot"

	if pinned := strings.TrimSpace(f.getenv(EnvVar)); pinned != "" {
		root, err := filepath.Abs(pinned)
		if err != nil {
			return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: pinned, Err: err}
		}
		if !hasConfig(root) {
			return "", &domain.OpError{
				Op:   op,
				Kind: domain.KindNotFound,
				Path: root,
				Err:  fmt.Errorf("%s points at a directory without %s: %w", EnvVar, ConfigFile, domain.ErrNotFound),
			}
		}
		return root, nil
	}

	if startDir == "" {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("start directory is empty")}
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: startDir, Err: err}
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for cur := filepath.Clean(dir); ; {
		if hasConfig(cur) {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: dir, Err: domain.ErrNotFound}
		}
		cur = parent
	}
}

func hasConfig(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ConfigFile))
	return err == nil && !info.IsDir()
}
