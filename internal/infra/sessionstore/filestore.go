// Package sessionstore keeps the logged-in session on disk between runs.
package sessionstore

import (
	"errors"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/alignedworks/cvx/internal/domain"
	"github.com/alignedworks/cvx/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore persists the session as a private JSON file.
type FileStore struct {
	path string
}

// NewFileStore stores the session at file, resolved against root when relative.
func NewFileStore(root, file string) *FileStore {
	if !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	return &FileStore{path: filepath.Clean(file)}
}

var _ ports.SessionStore = (*FileStore)(nil)

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (domain.Session, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, &domain.OpError{
			Op:   "sessionstore.load",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return domain.Session{}, &domain.OpError{
			Op:   "sessionstore.load",
			Kind: domain.KindInvalidConfig,
			Path: s.path,
			Err:  err,
		}
	}
	return sess, nil
}

func (s *FileStore) Save(sess domain.Session) error {
	if !sess.Active() {
		return s.Clear()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &domain.OpError{
			Op:   "sessionstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "sessionstore.marshal",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return &domain.OpError{
			Op:   "sessionstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "sessionstore.rename",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}

// Clear removes the session file. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &domain.OpError{
			Op:   "sessionstore.clear",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}
