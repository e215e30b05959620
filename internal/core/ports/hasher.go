package ports

import "io"

// Hasher computes content digests used to detect unchanged outputs.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashReader returns the digest of everything read from r.
	HashReader(r io.Reader) (string, error)
	// HashFile returns the digest of the file at path.
	HashFile(path string) (string, error)
}
