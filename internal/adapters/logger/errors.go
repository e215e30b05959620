package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/prcl/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
type messager interface {
	Message() string
}

// metadataCarrier describes an error carrying key/value context.
type metadataCarrier interface {
	Metadata() map[string]any
}

// errorEntry is one layer of an error chain.
type errorEntry struct {
	message  string
	metadata map[string]any
}

func (e errorEntry) keys() []string {
	return slices.Sorted(maps.Keys(e.metadata))
}

// collectErrorEntries walks the chain of err. Layers without a message only
// add context, so their metadata is merged into the layer above.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var pending map[string]any

	for current := err; current != nil; current = errors.Unwrap(current) {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), metadata: pending})
			break
		}

		var meta map[string]any
		if c, ok := current.(metadataCarrier); ok {
			meta = c.Metadata()
		}

		if m.Message() == "" {
			if len(entries) > 0 {
				last := &entries[len(entries)-1]
				last.metadata = merge(last.metadata, meta)
			} else {
				pending = merge(pending, meta)
			}
			continue
		}

		entries = append(entries, errorEntry{message: m.Message(), metadata: merge(pending, meta)})
		pending = nil
	}
	return entries
}

func merge(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// formatErrorEntries renders the chain with the outermost message first and
// every deeper layer listed as a cause.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.message, "\n")

		indent := "      "
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			indent = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lines = append(lines, "    "+style.Arrow+" "+msgLines[0])
		}
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range entry.keys() {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
