package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/givematch/internal/domain/predict"
)

// Default artifact location under the configured directory.
const (
	defaultFilename = "matching_model.json"
	dirMode         = 0o755
)

// FileStore persists the artifact as a JSON document on disk. Writes go
// through a temp file in the same directory followed by a rename, so a
// crash mid-write leaves the previous artifact intact.
type FileStore struct {
	dir      string
	filename string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir:      dir,
		filename: defaultFilename,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the artifact file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.filename)
}

// Load reads and validates the persisted artifact.
func (s *FileStore) Load(_ context.Context) (*predict.Artifact, error) {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a predict.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &a, nil
}

// Save writes the artifact atomically.
func (s *FileStore) Save(_ context.Context, a *predict.Artifact) error {
	if err := a.Validate(); err != nil {
		return err //nolint:wrapcheck // validation errors carry their own kind
	}
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}
