package ports

import "io"

// FileSystem is the read side of the file system used while building the module graph.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// IsFile reports whether path is an existing regular file.
	// A missing path is reported as false with a nil error.
	IsFile(path string) (bool, error)
	// ReadFile returns the content of the file at path.
	ReadFile(path string) ([]byte, error)
	// ReadJSON decodes the JSON file at path into v.
	ReadJSON(path string, v any) error
}

// ArtifactWriter writes build outputs.
type ArtifactWriter interface {
	// WriteArtifact replaces the file at path with whatever write produces.
	// Readers never observe a partially written file.
	WriteArtifact(path string, write func(w io.Writer) error) error
}
