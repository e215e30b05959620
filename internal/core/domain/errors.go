package domain

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrModuleNotResolved is returned when a specifier cannot be mapped to a file.
	ErrModuleNotResolved = zerr.New("could not resolve module")

	// ErrEntryNotPath is returned when the entry module is a bare specifier instead of a file path.
	ErrEntryNotPath = zerr.New("main module must be a file path")

	// ErrPackageMainNotFound is returned when a package.json declares a main that does not exist.
	ErrPackageMainNotFound = zerr.New("package main could not be resolved")

	// ErrPackageDescriptorInvalid is returned when a package.json cannot be parsed.
	ErrPackageDescriptorInvalid = zerr.New("invalid package descriptor")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileStatFailed is returned when a candidate path cannot be inspected.
	ErrFileStatFailed = zerr.New("failed to stat file")

	// ErrNoEntry is returned when neither the command line nor the config names an entry file.
	ErrNoEntry = zerr.New("no entry file specified")

	// ErrEntryCanonicalizeFailed is returned when the entry path cannot be made absolute and symlink-free.
	ErrEntryCanonicalizeFailed = zerr.New("failed to canonicalize entry path")

	// ErrArtifactWriteFailed is returned when the bundle or the source map cannot be written.
	ErrArtifactWriteFailed = zerr.New("failed to write artifact")

	// ErrWatchFailed is returned when the file watcher cannot be started or updated.
	ErrWatchFailed = zerr.New("failed to watch files")

	// ErrStoreCreateFailed is returned when the bundle info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create bundle info store directory")

	// ErrStoreReadFailed is returned when the bundle info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read bundle info")

	// ErrStoreUnmarshalFailed is returned when the bundle info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal bundle info")

	// ErrStoreMarshalFailed is returned when the bundle info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal bundle info")

	// ErrStoreWriteFailed is returned when the bundle info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write bundle info")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDebounce is returned when the configured debounce window is not a positive duration.
	ErrInvalidDebounce = zerr.New("invalid watch debounce, expected a positive duration such as 50ms")
)

// NewResolutionError reports that specifier could not be resolved from parent.
// An empty parent denotes the entry file.
// The returned error matches ErrModuleNotResolved with errors.Is.
func NewResolutionError(specifier, parent string) error {
	if parent == "" {
		err := zerr.Wrap(ErrModuleNotResolved, "could not resolve module name: "+specifier)
		return zerr.With(err, "specifier", specifier)
	}
	err := zerr.Wrap(ErrModuleNotResolved, fmt.Sprintf("could not resolve module name: %s in %s", specifier, parent))
	err = zerr.With(err, "specifier", specifier)
	return zerr.With(err, "parent", parent)
}

// IsResolutionError reports whether err is a failure to resolve a specifier,
// including a package whose declared main is missing.
func IsResolutionError(err error) bool {
	return errors.Is(err, ErrModuleNotResolved) || errors.Is(err, ErrPackageMainNotFound)
}
