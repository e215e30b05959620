package domain

import "time"

// BundleInfo records the last bundle written to an output path.
type BundleInfo struct {
	// Output is the absolute path of the bundle file.
	Output string `json:"output"`
	// Entry is the canonical entry file the bundle was built from.
	Entry string `json:"entry"`
	// Digest is the hash of the bundle text.
	Digest string `json:"digest"`
	// MapDigest is the hash of the source map text.
	MapDigest string `json:"map_digest"`
	// Sources lists the bundled files sorted by path.
	Sources []string `json:"sources"`
	// Timestamp is when the bundle was written.
	Timestamp time.Time `json:"timestamp"`
}
