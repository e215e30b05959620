package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/prcl/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/prcl/internal/engine/bundler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			bundler.NodeID,
			fs.WriterNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			watcher.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			builders, err := graft.Dep[*bundler.Factory](ctx)
			if err != nil {
				return nil, err
			}

			writer, err := graft.Dep[ports.ArtifactWriter](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BundleInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			watchers, err := graft.Dep[ports.WatcherFactory](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, log, builders, writer, hasher, store, watchers, tracer), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    app,
				Logger: log,
			}, nil
		},
	})
}
