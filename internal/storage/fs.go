package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FSStore keeps the blob in a single file. Writes go through a temp file
// and rename, so a crashed save never leaves a truncated blob behind.
type FSStore struct {
	path string
}

// NewFSStore creates a file-backed store at path, creating parent
// directories as needed.
func NewFSStore(path string) (*FSStore, error) {
	if path == "" {
		return nil, errors.New("store path not specified")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create store directory: %s", dir)
		}
	}
	return &FSStore{path: path}, nil
}

func (s *FSStore) Save(blob []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write blob: %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to publish blob: %s", s.path)
	}
	return nil
}

func (s *FSStore) Load() ([]byte, bool, error) {
	blob, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read blob: %s", s.path)
	}
	return blob, true, nil
}
