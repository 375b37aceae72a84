package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/linguacrawl"
)

// Ensure StatusFile implements linguacrawl.StatusStore at compile time.
var _ linguacrawl.StatusStore = (*StatusFile)(nil)

// StatusFile stores the frontier checkpoint as a JSON file. Saves go
// through a temporary file and a rename, so a crash mid-write leaves the
// previous checkpoint intact.
type StatusFile struct {
	path string
}

// NewStatusFile creates a StatusFile at path.
func NewStatusFile(path string) *StatusFile {
	return &StatusFile{path: path}
}

// Path returns the checkpoint file path.
func (f *StatusFile) Path() string {
	return f.path
}

// SaveStatus atomically replaces the checkpoint file with s.
func (f *StatusFile) SaveStatus(ctx context.Context, s *linguacrawl.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	// Removing after a successful rename fails harmlessly.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

// LoadStatus reads the checkpoint file. It returns ENOTFOUND when the file
// does not exist and ECORRUPT when it cannot be decoded or fails validation.
func (f *StatusFile) LoadStatus(ctx context.Context) (*linguacrawl.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, linguacrawl.Errorf(linguacrawl.ENOTFOUND, "no checkpoint at %s", f.path)
	}
	if err != nil {
		return nil, err
	}

	var s linguacrawl.Status
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, linguacrawl.Errorf(linguacrawl.ECORRUPT, "decoding %s: %v", f.path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
