// Package cas stores metadata about written bundles, one file per output path.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.BundleInfoStore using a file-per-output strategy.
type Store struct{}

// NewStore creates a new Store. All files live below the root passed to Get and Put.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the bundle info recorded for output. It returns nil, nil if
// nothing was recorded.
func (s *Store) Get(root, output string) (*domain.BundleInfo, error) {
	filename := s.getFilename(root, output)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "output", output)
	}

	var info domain.BundleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "output", output)
	}

	return &info, nil
}

// Put stores the bundle info under its output path.
func (s *Store) Put(root string, info domain.BundleInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root, info.Output)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

func (s *Store) getFilename(root, output string) string {
	hash := sha256.Sum256([]byte(output))
	hexHash := hex.EncodeToString(hash[:])
	return filepath.Join(root, domain.DefaultStorePath(), hexHash+".json")
}
