// Package app implements the application layer for prcl.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/prcl/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/prcl/internal/engine/bundler"
	"go.trai.ch/zerr"
)

// BuilderFactory creates a Builder with fresh caches for every build.
type BuilderFactory interface {
	New(opts bundler.Options) (*bundler.Builder, error)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	builders     BuilderFactory
	writer       ports.ArtifactWriter
	hasher       ports.Hasher
	store        ports.BundleInfoStore
	watchers     ports.WatcherFactory
	tracer       ports.Tracer
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	builders BuilderFactory,
	writer ports.ArtifactWriter,
	hasher ports.Hasher,
	store ports.BundleInfoStore,
	watchers ports.WatcherFactory,
	tracer ports.Tracer,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		builders:     builders,
		writer:       writer,
		hasher:       hasher,
		store:        store,
		watchers:     watchers,
		tracer:       tracer,
		stdout:       os.Stdout,
	}
}

// WithStdout sets the writer that receives the bundle when no output file is given.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// BundleOptions configuration for the Bundle method.
type BundleOptions struct {
	// Input overrides the configured entry file.
	Input string
	// Output overrides the configured bundle file. Empty streams to stdout.
	Output string
	// Config names an explicit prcl.yaml instead of searching for one.
	Config string
	// Watch keeps rebuilding when bundled files change.
	Watch bool
	// Verbose enables debug logging.
	Verbose bool
	// JSONLogs switches the logger to JSON lines.
	JSONLogs bool
}

// logSettings is implemented by loggers that can be reconfigured per run.
type logSettings interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// target is a fully resolved build request.
type target struct {
	cwd      string
	root     string
	entry    string
	output   string
	options  bundler.Options
	debounce time.Duration
}

// Bundle builds the entry named by opts or the configuration.
func (a *App) Bundle(ctx context.Context, opts BundleOptions) error {
	if s, ok := a.logger.(logSettings); ok {
		s.SetVerbose(opts.Verbose)
		s.SetJSON(opts.JSONLogs)
	}

	// Spans end up in the debug log.
	setupOTel(telemetry.NewBridge(a.logger))

	t, err := a.resolveTarget(opts)
	if err != nil {
		return err
	}

	if opts.Watch {
		return a.watch(ctx, t)
	}
	_, err = a.build(ctx, t)
	return err
}

func (a *App) resolveTarget(opts BundleOptions) (*target, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	var cfg *domain.Config
	if opts.Config != "" {
		cfg, err = a.configLoader.LoadFile(absFrom(cwd, opts.Config))
	} else {
		cfg, err = a.configLoader.Load(cwd)
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	entry := cfg.Entry
	if opts.Input != "" {
		entry = absFrom(cwd, opts.Input)
	}
	if entry == "" {
		return nil, domain.ErrNoEntry
	}
	entry, err = canonicalize(entry)
	if err != nil {
		return nil, err
	}

	output := cfg.Output
	if opts.Output != "" {
		output = absFrom(cwd, opts.Output)
	}

	return &target{
		cwd:    cwd,
		root:   cfg.Root,
		entry:  entry,
		output: output,
		options: bundler.Options{
			ExistenceEntries: cfg.ExistenceEntries,
			Externals:        cfg.Externals,
		},
		debounce: cfg.Debounce,
	}, nil
}

// build bundles t once. The returned paths are the files that were read,
// which is useful for watching even when the build failed.
func (a *App) build(ctx context.Context, t *target) ([]string, error) {
	builder, err := a.builders.New(t.options)
	if err != nil {
		return nil, err
	}

	b, err := builder.Bundle(ctx, t.entry)
	if err != nil {
		return builder.Dependencies(), err
	}
	deps := b.Dependencies()

	if t.output == "" {
		if _, err := b.Emit(a.stdout, ""); err != nil {
			return deps, zerr.Wrap(err, "failed to write bundle to stdout")
		}
		return deps, nil
	}

	return deps, a.writeOutputs(ctx, t, b)
}

func (a *App) writeOutputs(ctx context.Context, t *target, b *bundler.Bundle) error {
	mapPath := domain.SourceMapPath(t.output)
	trailer := fmt.Sprintf("//# sourceMappingURL=%s\n", filepath.Base(mapPath))

	_, span := a.tracer.Start(ctx, "sourcemap", ports.WithAttribute("path", t.output))
	mapText, err := b.SourceMap(trailer, filepath.Dir(t.output)).JSON()
	span.End()
	if err != nil {
		return zerr.Wrap(err, "failed to encode source map")
	}

	digest, err := a.hasher.HashReader(b.Reader(trailer))
	if err != nil {
		return err
	}
	mapDigest, err := a.hasher.HashReader(strings.NewReader(mapText))
	if err != nil {
		return err
	}

	if a.unchanged(t, mapPath, digest, mapDigest) {
		a.logger.Info(fmt.Sprintf("%s is up to date", displayPath(t.cwd, t.output)))
		return nil
	}

	_, span = a.tracer.Start(ctx, "generate", ports.WithAttribute("path", t.output))
	err = a.writer.WriteArtifact(t.output, func(w io.Writer) error {
		_, err := b.Emit(w, trailer)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.End()
		return err
	}
	span.End()

	err = a.writer.WriteArtifact(mapPath, func(w io.Writer) error {
		_, err := io.WriteString(w, mapText)
		return err
	})
	if err != nil {
		return err
	}

	info := domain.BundleInfo{
		Output:    t.output,
		Entry:     t.entry,
		Digest:    digest,
		MapDigest: mapDigest,
		Sources:   b.Dependencies(),
		Timestamp: time.Now(),
	}
	if err := a.store.Put(t.root, info); err != nil {
		return zerr.Wrap(err, "failed to store bundle info")
	}

	a.logger.Info(fmt.Sprintf("bundled %d files into %s", len(info.Sources), displayPath(t.cwd, t.output)))
	return nil
}

// unchanged reports whether both files on disk already hold the given digests.
func (a *App) unchanged(t *target, mapPath, digest, mapDigest string) bool {
	info, err := a.store.Get(t.root, t.output)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("ignoring bundle info for %s: %v", displayPath(t.cwd, t.output), err))
		return false
	}
	if info == nil || info.Digest != digest || info.MapDigest != mapDigest {
		return false
	}

	onDisk, err := a.hasher.HashFile(t.output)
	if err != nil || onDisk != digest {
		return false
	}
	onDisk, err = a.hasher.HashFile(mapPath)
	return err == nil && onDisk == mapDigest
}

// canonicalize returns path made absolute and free of symlinks. A missing
// file keeps its name so the resolver can still try extensions.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrEntryCanonicalizeFailed.Error()), "path", path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", zerr.With(zerr.Wrap(err, domain.ErrEntryCanonicalizeFailed.Error()), "path", path)
	}

	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrEntryCanonicalizeFailed.Error()), "path", path)
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

func absFrom(cwd, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}

func displayPath(cwd, path string) string {
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// setupOTel configures the OpenTelemetry SDK with the logging bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)

	otel.SetTracerProvider(tp)
}
