package bundler_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"math/rand/v2"
	"sync"
	"time"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/zerr"
)

// memFS serves files from a map keyed by absolute path.
// When jitter is set every call sleeps for a random duration below it.
type memFS struct {
	files  map[string]string
	jitter time.Duration

	mu    sync.Mutex
	reads map[string]int
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files, reads: make(map[string]int)}
}

func (m *memFS) sleep() {
	if m.jitter > 0 {
		time.Sleep(rand.N(m.jitter))
	}
}

func (m *memFS) IsFile(path string) (bool, error) {
	m.sleep()
	_, ok := m.files[path]
	return ok, nil
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.sleep()
	m.mu.Lock()
	m.reads[path]++
	m.mu.Unlock()

	content, ok := m.files[path]
	if !ok {
		return nil, zerr.With(zerr.Wrap(fs.ErrNotExist, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return []byte(content), nil
}

func (m *memFS) ReadJSON(path string, v any) error {
	data, err := m.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *memFS) readCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

var errBroken = errors.New("input/output error")

// brokenFS fails every read of path while still reporting it as a file.
// Failures are wrapped like the fs adapter wraps them.
type brokenFS struct {
	*memFS
	path string
}

func (b *brokenFS) ReadFile(path string) ([]byte, error) {
	if path == b.path {
		return nil, zerr.With(zerr.Wrap(errBroken, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return b.memFS.ReadFile(path)
}
