// Package sourcemap produces line-granular version 3 source maps for bundles
// that embed their sources verbatim.
package sourcemap

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Source is one file embedded in the generated output.
type Source struct {
	// Path is the absolute path of the original file.
	Path string
	// Content is the embedded text.
	Content string
	// Start is the zero-based generated line holding the first line of Content.
	Start int
	// Lines is the number of lines Content occupies.
	Lines int
}

// Layout describes where sources sit in the generated output.
type Layout struct {
	// Lines is the total number of generated lines.
	Lines int
	// Sources are in emission order, which is also the order of the map's sources list.
	Sources []Source
}

// Map is a version 3 source map. Field order matches the serialized form.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	SourceRoot     string   `json:"sourceRoot"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Build creates the map for layout. Source paths are made relative to baseDir.
func Build(layout Layout, baseDir string) *Map {
	m := &Map{
		Version:        3,
		Sources:        make([]string, len(layout.Sources)),
		SourcesContent: make([]string, len(layout.Sources)),
		Names:          []string{},
		Mappings:       Mappings(layout),
	}
	for i, src := range layout.Sources {
		m.Sources[i] = relative(baseDir, src.Path)
		m.SourcesContent[i] = src.Content
	}
	return m
}

// JSON returns the serialized map.
func (m *Map) JSON() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", zerr.Wrap(err, "failed to encode source map")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Mappings encodes one group per generated line. Every line of a source maps
// column 0 to the same line of its original file; all other lines are empty.
func Mappings(layout Layout) string {
	groups := make([]string, layout.Lines)

	prevLast := -1
	for i, src := range layout.Sources {
		for line := range src.Lines {
			at := src.Start + line
			if at < 0 || at >= len(groups) {
				continue
			}
			switch {
			case line > 0:
				groups[at] = "AACA"
			case i == 0:
				groups[at] = "AAAA"
			default:
				groups[at] = "AC" + EncodeVLQ(-prevLast) + "A"
			}
		}
		prevLast = src.Lines - 1
	}

	return strings.Join(groups, ";")
}

func relative(baseDir, path string) string {
	if baseDir == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
