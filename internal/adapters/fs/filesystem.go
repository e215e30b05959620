// Package fs implements the file system adapters used by the bundler.
package fs

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"syscall"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem reads source files from the local disk.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// IsFile reports whether path is an existing regular file, following symlinks.
func (f *FileSystem) IsFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileStatFailed.Error()), "path", path)
	}
	return info.Mode().IsRegular(), nil
}

// ReadFile returns the content of the file at path.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Paths come from module resolution
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return data, nil
}

// ReadJSON decodes the JSON file at path into v.
func (f *FileSystem) ReadJSON(path string, v any) error {
	data, err := f.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.Wrap(err, "invalid JSON"), "path", path)
	}
	return nil
}

// isMissing reports errors meaning nothing exists at the path, including a
// path that runs through a regular file.
func isMissing(err error) bool {
	return errors.Is(err, iofs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
