package bundler

import (
	"io"
	"iter"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/engine/codegen"
	"go.trai.ch/prcl/internal/engine/sourcemap"
)

// Bundle is the result of a successful build.
type Bundle struct {
	program codegen.Program
}

// Main returns the entry file.
func (b *Bundle) Main() domain.InternedString {
	return b.program.Main
}

// Files returns the bundled files sorted by path.
func (b *Bundle) Files() []*domain.ModuleFile {
	return b.program.Files
}

// Mains returns the package mains recorded during resolution.
func (b *Bundle) Mains() []domain.PackageMain {
	return b.program.Mains
}

// Dependencies returns the paths of all bundled files, sorted.
func (b *Bundle) Dependencies() []string {
	paths := make([]string, len(b.program.Files))
	for i, f := range b.program.Files {
		paths[i] = f.Path.String()
	}
	return paths
}

// Chunks returns the bundle text lazily, followed by trailer.
func (b *Bundle) Chunks(trailer string) iter.Seq[string] {
	return codegen.Chunks(b.program, trailer)
}

// Reader returns the bundle text as a stream.
func (b *Bundle) Reader(trailer string) io.ReadCloser {
	return codegen.NewReader(b.Chunks(trailer))
}

// Emit writes the bundle text to w and returns the number of bytes written.
func (b *Bundle) Emit(w io.Writer, trailer string) (int64, error) {
	var total int64
	for chunk := range b.Chunks(trailer) {
		n, err := io.WriteString(w, chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// SourceMap returns the map for the text produced with the same trailer.
// Source paths are relative to baseDir.
func (b *Bundle) SourceMap(trailer, baseDir string) *sourcemap.Map {
	return sourcemap.Build(codegen.Layout(b.program, trailer), baseDir)
}
