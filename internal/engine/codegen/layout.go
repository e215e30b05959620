package codegen

import (
	"strings"

	"go.trai.ch/prcl/internal/engine/sourcemap"
)

// Layout locates every file of p in the text produced by Chunks(p, trailer).
// It walks the same structure as Chunks without rendering file headers.
func Layout(p Program, trailer string) sourcemap.Layout {
	// cursor is the line on which the next chunk starting with a newline begins.
	cursor := strings.Count(prelude, "\n") + 1 + len(p.Mains)

	sources := make([]sourcemap.Source, 0, len(p.Files))
	for _, f := range p.Files {
		start := cursor + 1
		lines := f.LineCount()
		sources = append(sources, sourcemap.Source{
			Path:    f.Path.String(),
			Content: f.Source,
			Start:   start,
			Lines:   lines,
		})
		cursor = start + lines + 1
	}

	tail := mainLine(p.Main) + exportLine + end + trailer
	return sourcemap.Layout{
		Lines:   cursor + strings.Count(tail, "\n"),
		Sources: sources,
	}
}
