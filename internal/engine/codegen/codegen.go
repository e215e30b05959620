// Package codegen renders a module graph as a single self-executing script.
//
// The script starts with a small CommonJS loader, registers every file as a
// wrapper function keyed by its path, and finally requires the entry file.
// Each file is emitted verbatim so that line numbers map one to one.
package codegen

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"iter"
	"path/filepath"
	"strings"

	"go.trai.ch/prcl/internal/core/domain"
)

//go:embed prelude.js
var preludeSource string

// prelude is the loader preamble. It opens the function closed by end.
var prelude = strings.TrimSuffix(preludeSource, "\n")

const (
	exportLine = "\n  if (typeof module !== 'undefined') module.exports = prcl.main"
	end        = "\n}(typeof global !== \"undefined\" ? global : typeof window !== \"undefined\" ? window : this)\n"
	jsonPrefix = "module.exports ="
	closeFile  = "\n}"
)

// Program is everything the generator needs from a finished build.
type Program struct {
	// Main is the entry file.
	Main domain.InternedString
	// Mains are the package mains discovered during resolution, sorted by directory.
	Mains []domain.PackageMain
	// Files are the bundled files sorted by path.
	Files []*domain.ModuleFile
}

// Chunks returns the bundle text as a lazy sequence of chunks followed by trailer.
// Nothing is rendered before the consumer asks for it.
func Chunks(p Program, trailer string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(prelude) {
			return
		}
		for _, m := range p.Mains {
			if !yield("\n  prcl.mains.set(" + JSPath(m.Dir) + ", " + JSPath(m.File) + ")") {
				return
			}
		}
		for _, f := range p.Files {
			if !yield(fileHeader(f)) || !yield(f.Source) || !yield(closeFile) {
				return
			}
		}
		if !yield(mainLine(p.Main)) || !yield(exportLine) || !yield(end) {
			return
		}
		if trailer != "" {
			yield(trailer)
		}
	}
}

// Text renders the whole bundle into a string.
func Text(p Program, trailer string) string {
	var sb strings.Builder
	for chunk := range Chunks(p, trailer) {
		sb.WriteString(chunk)
	}
	return sb.String()
}

func fileHeader(f *domain.ModuleFile) string {
	path := JSPath(f.Path.String())
	id := Identifier(f.Path.String())

	prefix := ""
	if f.IsJSON() {
		prefix = jsonPrefix
	}

	var sb strings.Builder
	sb.WriteString("\n  prcl.files.set(")
	sb.WriteString(path)
	sb.WriteString(", {deps: ")
	sb.WriteString(depsMap(f.Deps))
	sb.WriteString(", make: ")
	sb.WriteString(id)
	sb.WriteString("}); function ")
	sb.WriteString(id)
	sb.WriteString("(module, exports, require) {")
	sb.WriteString(prefix)
	sb.WriteString("\n")
	return sb.String()
}

func mainLine(main domain.InternedString) string {
	return "\n  prcl.main = prcl.makeRequire(null)(" + JSPath(main.String()) + ")"
}

// depsMap renders a dependency table as a Map literal. External entries map to null.
func depsMap(deps []domain.Dependency) string {
	var sb strings.Builder
	sb.WriteString("new Map([")
	for i, d := range deps {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('[')
		sb.WriteString(jsString(d.Specifier))
		sb.WriteByte(',')
		if d.External() {
			sb.WriteString("null")
		} else {
			sb.WriteString(JSPath(d.Path.String()))
		}
		sb.WriteByte(']')
	}
	sb.WriteString("])")
	return sb.String()
}

// JSPath returns path as a quoted, slash separated, rooted string literal.
// The loader keys files by this form on every platform.
func JSPath(path string) string {
	return jsString(slashPath(path))
}

func slashPath(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Identifier returns the wrapper function name for a file.
// Every byte outside [A-Za-z0-9_] becomes '$' followed by two hex digits,
// so distinct paths always produce distinct names.
func Identifier(path string) string {
	const hex = "0123456789abcdef"

	p := slashPath(path)
	var sb strings.Builder
	sb.Grow(len("file_") + len(p)*3)
	sb.WriteString("file_")
	for i := range len(p) {
		c := p[i]
		if isWordByte(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('$')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// jsString quotes s as a JSON string, which is also a valid JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
