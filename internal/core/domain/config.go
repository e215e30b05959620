package domain

import "time"

const (
	// DefaultDebounceWindow is the time the watcher waits for file events to settle.
	DefaultDebounceWindow = 50 * time.Millisecond

	// DefaultExistenceEntries bounds the per-build file existence cache.
	DefaultExistenceEntries = 1 << 16
)

// Config holds the project settings read from prcl.yaml.
// Paths are absolute; relative values in the file are joined with Root.
type Config struct {
	// Root is the directory containing the config file, or the working directory.
	Root string
	// Entry is the default entry file.
	Entry string
	// Output is the default bundle file.
	Output string
	// Externals are extra bare specifiers left to the host loader.
	Externals []string
	// Debounce is the watch mode settle window.
	Debounce time.Duration
	// ExistenceEntries is the capacity of the file existence cache.
	ExistenceEntries int
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:             root,
		Debounce:         DefaultDebounceWindow,
		ExistenceEntries: DefaultExistenceEntries,
	}
}
