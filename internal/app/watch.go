package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/prcl/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// watchSet tracks which events should trigger a rebuild.
type watchSet struct {
	mu      sync.RWMutex
	deps    map[string]bool
	outputs []string
	store   string
}

func newWatchSet(t *target) *watchSet {
	s := &watchSet{
		deps:  make(map[string]bool),
		store: filepath.Join(t.root, domain.PrclDirName),
	}
	if t.output != "" {
		s.outputs = []string{t.output, domain.SourceMapPath(t.output)}
	}
	return s
}

func (s *watchSet) update(deps []string) {
	next := make(map[string]bool, len(deps))
	for _, d := range deps {
		next[d] = true
	}

	s.mu.Lock()
	s.deps = next
	s.mu.Unlock()
}

// relevant reports whether ev should cause a rebuild. Writes only count for
// bundled files. Any other change in a watched directory may alter resolution.
func (s *watchSet) relevant(ev ports.WatchEvent) bool {
	if s.ignored(ev.Path) {
		return false
	}
	if ev.Operation != ports.OpWrite {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deps[ev.Path]
}

// ignored matches the files written by the build itself, including the
// temporary files they are renamed from.
func (s *watchSet) ignored(path string) bool {
	if path == s.store || strings.HasPrefix(path, s.store+string(filepath.Separator)) {
		return true
	}
	for _, out := range s.outputs {
		if path == out {
			return true
		}
		if filepath.Dir(path) == filepath.Dir(out) &&
			strings.HasPrefix(filepath.Base(path), "."+filepath.Base(out)+".") {
			return true
		}
	}
	return false
}

// recoverable reports whether a failed build should leave watch mode running.
func recoverable(err error) bool {
	return domain.IsResolutionError(err) ||
		errors.Is(err, domain.ErrEntryNotPath) ||
		errors.Is(err, fs.ErrNotExist)
}

// watch rebuilds t whenever one of its files changes until ctx is cancelled.
func (a *App) watch(ctx context.Context, t *target) error {
	w, err := a.watchers.New()
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	g, ctx := errgroup.WithContext(ctx)
	if err := w.Start(ctx); err != nil {
		return err
	}

	set := newWatchSet(t)
	rebuild := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(t.debounce, func(paths []string) {
		select {
		case rebuild <- paths:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	if err := a.cycle(ctx, t, w, set); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("watching %s for changes", displayPath(t.cwd, t.entry)))

	g.Go(func() error {
		for ev := range w.Events() {
			if set.relevant(ev) {
				debouncer.Add(ev.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-rebuild:
				a.logger.Debug(fmt.Sprintf("changed: %s", strings.Join(paths, ", ")))
				if err := a.cycle(ctx, t, w, set); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

// cycle runs one build and moves the watch set to the files it read.
func (a *App) cycle(ctx context.Context, t *target, w ports.Watcher, set *watchSet) error {
	deps, err := a.build(ctx, t)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if !recoverable(err) {
			return err
		}
		a.logger.Error(err)
	}

	set.update(deps)
	// The entry stays watched so that creating it triggers a build.
	return w.Sync(append(deps, t.entry))
}
