package bundler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/prcl/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/prcl/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/prcl/internal/core/ports"
)

// NodeID is the unique identifier for the bundler Graft node.
const NodeID graft.ID = "engine.bundler"

// Factory creates a fresh Builder for every build.
type Factory struct {
	fs     ports.FileSystem
	tracer ports.Tracer
}

// NewFactory creates a Factory sharing fs and tracer across builds.
func NewFactory(fs ports.FileSystem, tracer ports.Tracer) *Factory {
	return &Factory{fs: fs, tracer: tracer}
}

// New returns a Builder with empty caches.
func (f *Factory) New(opts Options) (*Builder, error) {
	return New(f.fs, f.tracer, opts)
}

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.FileSystemNodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(fsys, tracer), nil
		},
	})
}
