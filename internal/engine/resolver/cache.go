package resolver

import (
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// ExistenceCache memoizes whether candidate paths are regular files.
// Concurrent lookups of the same path share a single stat.
type ExistenceCache struct {
	fs       ports.FileSystem
	entries  *lru.Cache[string, bool]
	inflight singleflight.Group
}

// NewExistenceCache creates a cache holding at most size entries.
func NewExistenceCache(fs ports.FileSystem, size int) (*ExistenceCache, error) {
	if size <= 0 {
		size = domain.DefaultExistenceEntries
	}
	entries, err := lru.New[string, bool](size)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create existence cache"), "size", size)
	}
	return &ExistenceCache{fs: fs, entries: entries}, nil
}

// IsFile reports whether path is an existing regular file.
func (c *ExistenceCache) IsFile(path string) (bool, error) {
	if ok, hit := c.entries.Get(path); hit {
		return ok, nil
	}

	v, err, _ := c.inflight.Do(path, func() (any, error) {
		if ok, hit := c.entries.Get(path); hit {
			return ok, nil
		}
		ok, err := c.fs.IsFile(path)
		if err != nil {
			return false, err
		}
		c.entries.Add(path, ok)
		return ok, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// MainCache remembers package descriptor lookups for the lifetime of one build.
// A zero file records a directory whose descriptor names no main.
type MainCache struct {
	mu    sync.RWMutex
	mains map[string]domain.InternedString
}

// NewMainCache creates an empty MainCache.
func NewMainCache() *MainCache {
	return &MainCache{mains: make(map[string]domain.InternedString)}
}

// Get returns the cached main for dir and whether dir was looked up before.
func (c *MainCache) Get(dir string) (domain.InternedString, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	main, ok := c.mains[dir]
	return main, ok
}

// Set records the main of dir.
func (c *MainCache) Set(dir string, main domain.InternedString) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mains[dir] = main
}

// Snapshot returns the resolved mains sorted by directory.
func (c *MainCache) Snapshot() []domain.PackageMain {
	c.mu.RLock()
	mains := make([]domain.PackageMain, 0, len(c.mains))
	for dir, file := range c.mains {
		if file.IsZero() {
			continue
		}
		mains = append(mains, domain.PackageMain{Dir: dir, File: file.String()})
	}
	c.mu.RUnlock()

	slices.SortFunc(mains, func(a, b domain.PackageMain) int {
		return strings.Compare(a.Dir, b.Dir)
	})
	return mains
}
