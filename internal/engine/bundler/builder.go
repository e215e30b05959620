// Package bundler builds the module graph of an entry file and packages it as a bundle.
package bundler

import (
	"context"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/prcl/internal/engine/codegen"
	"go.trai.ch/prcl/internal/engine/resolver"
	"golang.org/x/sync/errgroup"
)

// Options configures a Builder.
type Options struct {
	// ExistenceEntries bounds the resolver's existence cache. Zero selects the default.
	ExistenceEntries int
	// Externals are bare package names left to the host loader.
	Externals []string
}

// Builder discovers every file reachable from an entry file.
// A Builder serves one build; its caches are never invalidated.
type Builder struct {
	fs       ports.FileSystem
	tracer   ports.Tracer
	resolver *resolver.Resolver
	graph    *domain.Graph
}

// New creates a Builder reading sources from fs.
func New(fs ports.FileSystem, tracer ports.Tracer, opts Options) (*Builder, error) {
	r, err := resolver.New(fs, resolver.Options{
		ExistenceEntries: opts.ExistenceEntries,
		Externals:        opts.Externals,
	})
	if err != nil {
		return nil, err
	}

	return &Builder{
		fs:       fs,
		tracer:   tracer,
		resolver: r,
		graph:    domain.NewGraph(),
	}, nil
}

// Dependencies returns every file the build has registered so far, sorted by path.
// After a failed build it still lists the files that were discovered, so that a
// watcher can wait for one of them to change.
func (b *Builder) Dependencies() []string {
	return b.graph.Paths()
}

// Bundle resolves entry as a path and includes everything it requires transitively.
// Files are read and resolved concurrently; the first failure cancels the rest
// and is returned.
func (b *Builder) Bundle(ctx context.Context, entry string) (*Bundle, error) {
	ctx, span := b.tracer.Start(ctx, "bundle", ports.WithAttribute("entry", entry))
	defer span.End()

	main, err := b.resolver.Resolve(ctx, "", entry)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	b.graph.SetMain(main)

	g, gctx := errgroup.WithContext(ctx)
	b.include(gctx, g, main)
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("files", b.graph.Len())

	return &Bundle{
		program: codegen.Program{
			Main:  main,
			Mains: b.resolver.Mains(),
			Files: b.graph.Files(),
		},
	}, nil
}

// include schedules path for loading unless another task already claimed it.
func (b *Builder) include(ctx context.Context, g *errgroup.Group, path domain.InternedString) {
	file, first := b.graph.Claim(path)
	if !first {
		return
	}
	g.Go(func() error {
		return b.load(ctx, g, file)
	})
}

func (b *Builder) load(ctx context.Context, g *errgroup.Group, file *domain.ModuleFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := file.Path.String()
	ctx, span := b.tracer.Start(ctx, "include", ports.WithAttribute("path", path))
	defer span.End()

	data, err := b.fs.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		return err
	}

	source := domain.BlankInterpreterLine(string(data))
	specs := ScanRequires(source)
	deps := make([]domain.Dependency, len(specs))

	rg, rctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		rg.Go(func() error {
			resolved, err := b.resolver.Resolve(rctx, path, spec)
			if err != nil {
				return err
			}
			deps[i] = domain.Dependency{Specifier: spec, Path: resolved}
			return nil
		})
	}
	if err := rg.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	file.Source = source
	file.Deps = deps
	span.SetAttribute("deps", len(deps))

	for _, dep := range deps {
		if !dep.External() {
			b.include(ctx, g, dep.Path)
		}
	}
	return nil
}
