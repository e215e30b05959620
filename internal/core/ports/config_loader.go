package ports

import "go.trai.ch/prcl/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration for the given working directory.
	// When no config file exists it returns the defaults rooted at cwd.
	Load(cwd string) (*domain.Config, error)
	// LoadFile reads the configuration from an explicit path.
	LoadFile(path string) (*domain.Config, error)
}
