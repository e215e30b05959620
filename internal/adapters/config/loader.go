// Package config provides the configuration loader for prcl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load searches cwd and its ancestors for prcl.yaml.
// Without a config file the defaults rooted at cwd are returned.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, ok := findConfiguration(cwd)
	if !ok {
		return domain.DefaultConfig(cwd), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the configuration at path. Relative paths inside it are
// resolved against the directory holding the file.
func (l *Loader) LoadFile(path string) (*domain.Config, error) {
	var prclfile Prclfile
	if err := readAndUnmarshalYAML(path, &prclfile); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	root := filepath.Dir(path)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	cfg := domain.DefaultConfig(root)
	cfg.Entry = resolvePath(root, prclfile.Entry)
	cfg.Output = resolvePath(root, prclfile.Output)
	cfg.Externals = l.normalizeExternals(prclfile.Externals)

	if prclfile.Watch.Debounce != "" {
		d, err := time.ParseDuration(prclfile.Watch.Debounce)
		if err != nil || d <= 0 {
			invalid := zerr.Wrap(domain.ErrInvalidDebounce, fmt.Sprintf("watch.debounce is %q", prclfile.Watch.Debounce))
			return nil, zerr.With(invalid, "path", path)
		}
		cfg.Debounce = d
	}

	if n := prclfile.Cache.ExistenceEntries; n > 0 {
		cfg.ExistenceEntries = n
	}

	l.Logger.Debug(fmt.Sprintf("using config %s", path))
	return cfg, nil
}

// findConfiguration walks from cwd to the file system root looking for prcl.yaml.
func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// normalizeExternals sorts and deduplicates the configured names.
// Core modules are always external, so listing one only earns a warning.
func (l *Loader) normalizeExternals(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	externals := sorted[:0]
	for _, name := range sorted {
		if name == "" {
			continue
		}
		if domain.IsBuiltinModule(name) {
			l.Logger.Warn(fmt.Sprintf("external %q is a core module and is always left to the host", name))
			continue
		}
		externals = append(externals, name)
	}
	return externals
}

func resolvePath(root, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
