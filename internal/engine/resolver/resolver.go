// Package resolver maps require specifiers to files using Node's module resolution rules.
package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Options configures a Resolver.
type Options struct {
	// ExistenceEntries bounds the existence cache. Zero selects the default.
	ExistenceEntries int
	// Externals are bare specifiers left to the host loader in addition to the core modules.
	Externals []string
}

// Resolver resolves specifiers for a single build.
// All caches live as long as the Resolver and are never invalidated.
type Resolver struct {
	fs          ports.FileSystem
	exists      *ExistenceCache
	mains       *MainCache
	descriptors singleflight.Group
	externals   map[string]bool
}

// packageDescriptor is the subset of package.json consulted during resolution.
type packageDescriptor struct {
	Main string `json:"main"`
}

// New creates a Resolver reading from fs.
func New(fs ports.FileSystem, opts Options) (*Resolver, error) {
	exists, err := NewExistenceCache(fs, opts.ExistenceEntries)
	if err != nil {
		return nil, err
	}

	externals := make(map[string]bool, len(opts.Externals))
	for _, name := range opts.Externals {
		externals[name] = true
	}

	return &Resolver{
		fs:        fs,
		exists:    exists,
		mains:     NewMainCache(),
		externals: externals,
	}, nil
}

// Mains returns the package mains resolved so far, sorted by directory.
func (r *Resolver) Mains() []domain.PackageMain {
	return r.mains.Snapshot()
}

// Resolve maps specifier, required from the file parent, to a canonical file path.
// An empty parent denotes the entry file. A zero result means the specifier is
// external and left to the host loader.
func (r *Resolver) Resolve(ctx context.Context, parent, specifier string) (domain.InternedString, error) {
	var zero domain.InternedString
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if isPathSpecifier(specifier) {
		return r.resolveRelative(parent, specifier)
	}

	if parent == "" {
		err := zerr.Wrap(domain.ErrEntryNotPath, fmt.Sprintf("cannot bundle %q", specifier))
		return zero, zerr.With(err, "specifier", specifier)
	}

	if r.isExternal(specifier) {
		return zero, nil
	}

	return r.resolveBare(ctx, parent, specifier)
}

func (r *Resolver) resolveRelative(parent, specifier string) (domain.InternedString, error) {
	var zero domain.InternedString

	var candidate string
	switch {
	case isAbs(specifier):
		candidate = filepath.FromSlash(specifier)
	case parent == "":
		abs, err := filepath.Abs(specifier)
		if err != nil {
			return zero, zerr.With(zerr.Wrap(err, "failed to make entry path absolute"), "specifier", specifier)
		}
		candidate = abs
	default:
		candidate = filepath.Join(filepath.Dir(parent), specifier)
	}

	file, ok, err := r.resolvePathOrPackage(candidate)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, domain.NewResolutionError(specifier, parent)
	}
	return file, nil
}

// resolveBare walks from the parent's directory to the file system root,
// probing node_modules in every ancestor that is not itself a node_modules directory.
func (r *Resolver) resolveBare(ctx context.Context, parent, specifier string) (domain.InternedString, error) {
	var zero domain.InternedString

	dir := parent
	for {
		next := filepath.Dir(dir)
		if next == dir {
			return zero, domain.NewResolutionError(specifier, parent)
		}
		dir = next

		if filepath.Base(dir) == domain.ModulesDirName {
			continue
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		file, ok, err := r.resolvePathOrPackage(filepath.Join(dir, domain.ModulesDirName, specifier))
		switch {
		case err != nil && domain.IsResolutionError(err):
			continue
		case err != nil:
			return zero, err
		case ok:
			return file, nil
		}
	}
}

// resolvePathOrPackage prefers the main declared by base/package.json and
// falls back to the suffix and index search on base itself.
func (r *Resolver) resolvePathOrPackage(base string) (domain.InternedString, bool, error) {
	main, err := r.packageMain(base)
	if err != nil {
		return domain.InternedString{}, false, err
	}
	if !main.IsZero() {
		return main, true, nil
	}
	return r.resolvePath(base)
}

// packageMain returns the resolved main of the package rooted at dir, or zero
// when dir has no descriptor or the descriptor names no main.
func (r *Resolver) packageMain(dir string) (domain.InternedString, error) {
	if main, ok := r.mains.Get(dir); ok {
		return main, nil
	}

	v, err, _ := r.descriptors.Do(dir, func() (any, error) {
		if main, ok := r.mains.Get(dir); ok {
			return main, nil
		}
		main, err := r.readPackageMain(dir)
		if err != nil {
			return domain.InternedString{}, err
		}
		r.mains.Set(dir, main)
		return main, nil
	})
	if err != nil {
		return domain.InternedString{}, err
	}
	return v.(domain.InternedString), nil
}

func (r *Resolver) readPackageMain(dir string) (domain.InternedString, error) {
	var zero domain.InternedString

	descriptorPath := filepath.Join(dir, domain.PackageFileName)
	ok, err := r.exists.IsFile(descriptorPath)
	if err != nil || !ok {
		return zero, err
	}

	var desc packageDescriptor
	if err := r.fs.ReadJSON(descriptorPath, &desc); err != nil {
		return zero, zerr.With(zerr.Wrap(err, domain.ErrPackageDescriptorInvalid.Error()), "path", descriptorPath)
	}
	if desc.Main == "" {
		return zero, nil
	}

	target := filepath.FromSlash(desc.Main)
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	main, ok, err := r.resolvePath(target)
	if err != nil {
		return zero, err
	}
	if !ok {
		notFound := zerr.Wrap(domain.ErrPackageMainNotFound, fmt.Sprintf("package %s declares main %q", dir, desc.Main))
		notFound = zerr.With(notFound, "package", descriptorPath)
		return zero, zerr.With(notFound, "main", desc.Main)
	}
	return main, nil
}

// resolvePath tries base as a file, with suffixes, and as a directory index.
func (r *Resolver) resolvePath(base string) (domain.InternedString, bool, error) {
	for _, candidate := range candidates(base) {
		ok, err := r.exists.IsFile(candidate)
		if err != nil {
			return domain.InternedString{}, false, err
		}
		if ok {
			return domain.NewInternedString(candidate), true, nil
		}
	}
	return domain.InternedString{}, false, nil
}

// candidates lists the files probed for base in priority order.
func candidates(base string) []string {
	return []string{
		base,
		base + domain.JSExt,
		filepath.Join(base, domain.IndexName+domain.JSExt),
		base + domain.JSONExt,
		filepath.Join(base, domain.IndexName+domain.JSONExt),
	}
}

func (r *Resolver) isExternal(specifier string) bool {
	if domain.IsBuiltinModule(specifier) {
		return true
	}
	if len(r.externals) == 0 {
		return false
	}
	name := specifier
	if strings.HasPrefix(name, "@") {
		if scope, rest, ok := strings.Cut(name, "/"); ok {
			pkg, _, _ := strings.Cut(rest, "/")
			name = scope + "/" + pkg
		}
	} else {
		name, _, _ = strings.Cut(name, "/")
	}
	return r.externals[name]
}

func isPathSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, ".") || isAbs(specifier)
}

func isAbs(specifier string) bool {
	return strings.HasPrefix(specifier, "/") || filepath.IsAbs(specifier)
}
