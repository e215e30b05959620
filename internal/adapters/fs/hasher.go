package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXHash digests of bundle outputs.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashReader returns the XXHash of everything read from r.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	digest := xxhash.New()
	if _, err := io.Copy(digest, r); err != nil {
		return "", zerr.Wrap(err, "failed to hash content")
	}
	return format(digest.Sum64()), nil
}

// HashFile returns the XXHash of the file at path.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	sum, err := h.HashReader(f)
	if err != nil {
		return "", zerr.With(err, "path", path)
	}
	return sum, nil
}

func format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
