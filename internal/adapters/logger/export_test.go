// export_test.go exports private functions for white-box testing.
package logger

// ErrorEntry exposes one collected layer of an error chain.
type ErrorEntry = errorEntry

// Message returns the layer's own message.
func (e errorEntry) Message() string { return e.message }

// Meta returns the layer's metadata.
func (e errorEntry) Meta() map[string]any { return e.metadata }

var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
