package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/prcl/internal/core/ports"
)

const (
	// FileSystemNodeID is the unique identifier for the source file system Graft node.
	FileSystemNodeID graft.ID = "adapter.fs.filesystem"
	// WriterNodeID is the unique identifier for the artifact writer Graft node.
	WriterNodeID graft.ID = "adapter.fs.writer"
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystem, error) {
			return NewFileSystem(), nil
		},
	})

	graft.Register(graft.Node[ports.ArtifactWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArtifactWriter, error) {
			return NewArtifactWriter(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
