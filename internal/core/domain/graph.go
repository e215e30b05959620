package domain

import (
	"slices"
	"strings"
	"sync"
)

// Graph is the set of module files reachable from an entry file.
// It is safe for concurrent use by include tasks.
type Graph struct {
	mu    sync.Mutex
	files map[InternedString]*ModuleFile
	main  InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		files: make(map[InternedString]*ModuleFile),
	}
}

// Claim registers path and returns its file record.
// The boolean is true only for the first caller; later callers get the same
// record back and must not read the file again.
func (g *Graph) Claim(path InternedString) (*ModuleFile, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if f, ok := g.files[path]; ok {
		return f, false
	}
	f := &ModuleFile{Path: path}
	g.files[path] = f
	return f, true
}

// Get returns the file registered at path.
func (g *Graph) Get(path InternedString) (*ModuleFile, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.files[path]
	return f, ok
}

// SetMain records the entry file of the graph.
func (g *Graph) SetMain(path InternedString) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.main = path
}

// Main returns the entry file of the graph.
func (g *Graph) Main() InternedString {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.main
}

// Len returns the number of registered files.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.files)
}

// Files returns the registered files sorted by path.
// The order never depends on the order in which files were discovered.
func (g *Graph) Files() []*ModuleFile {
	g.mu.Lock()
	files := make([]*ModuleFile, 0, len(g.files))
	for _, f := range g.files {
		files = append(files, f)
	}
	g.mu.Unlock()

	slices.SortFunc(files, func(a, b *ModuleFile) int {
		return strings.Compare(a.Path.String(), b.Path.String())
	})
	return files
}

// Paths returns the registered file paths sorted lexically.
func (g *Graph) Paths() []string {
	files := g.Files()
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path.String()
	}
	return paths
}
