// Package archive keeps a copy of every uploaded log file.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned when an upload name has no usable base name
var ErrInvalidName = errors.New("invalid upload file name")

// Store saves raw upload bytes under a name and returns where they went
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// SafeName reduces a client-supplied filename to its base name
func SafeName(name string) (string, error) {
	base := filepath.Base(filepath.Clean(strings.ReplaceAll(name, `\`, "/")))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}

// LocalStore writes uploads into a directory. Files with the same base
// name overwrite each other.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates a local store rooted at dir
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

// Save writes data to Dir/<base name>
func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	base, err := SafeName(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.Dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	return path, nil
}

// Multi saves to every store in order and stops at the first failure.
// The returned location is the first store's.
type Multi []Store

// Save implements Store
func (m Multi) Save(ctx context.Context, name string, data []byte) (string, error) {
	var first string
	for i, s := range m {
		loc, err := s.Save(ctx, name, data)
		if err != nil {
			return "", err
		}
		if i == 0 {
			first = loc
		}
	}
	return first, nil
}
