// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/prcl/internal/adapters/cas"
	_ "go.trai.ch/prcl/internal/adapters/config"
	_ "go.trai.ch/prcl/internal/adapters/fs"
	_ "go.trai.ch/prcl/internal/adapters/logger"
	_ "go.trai.ch/prcl/internal/adapters/telemetry"
	_ "go.trai.ch/prcl/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/prcl/internal/app"
	_ "go.trai.ch/prcl/internal/engine/bundler"
)
