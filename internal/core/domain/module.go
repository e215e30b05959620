package domain

import "strings"

// Dependency is one require specifier found in a module and the file it resolved to.
type Dependency struct {
	// Specifier is the literal string passed to require, after unescaping.
	Specifier string
	// Path is the resolved file. It is zero when the host loader handles the specifier.
	Path InternedString
}

// External reports whether the dependency is left to the host module loader.
func (d Dependency) External() bool {
	return d.Path.IsZero()
}

// ModuleFile is a single source file included in a bundle.
type ModuleFile struct {
	// Path is the canonical absolute path of the file.
	Path InternedString
	// Source is the file content with any interpreter line blanked.
	Source string
	// Deps lists the distinct specifiers in order of first appearance.
	Deps []Dependency
}

// IsJSON reports whether the file is evaluated as a JSON value.
func (m *ModuleFile) IsJSON() bool {
	return strings.HasSuffix(m.Path.String(), JSONExt)
}

// LineCount returns the number of physical lines in the source.
// An empty source still occupies one line.
func (m *ModuleFile) LineCount() int {
	return strings.Count(m.Source, "\n") + 1
}

// BlankInterpreterLine replaces a leading "#!" line with an empty line so that
// the remaining lines keep their numbers.
func BlankInterpreterLine(src string) string {
	if !strings.HasPrefix(src, "#!") {
		return src
	}
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		return src[i:]
	}
	return ""
}

// PackageMain maps a package directory to the file its package.json selects.
type PackageMain struct {
	Dir  string
	File string
}
