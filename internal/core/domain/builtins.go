package domain

import "strings"

// builtinModules are the Node.js core modules. Requires of these are left to the host loader.
var builtinModules = map[string]bool{
	"assert":              true,
	"async_hooks":         true,
	"buffer":              true,
	"child_process":       true,
	"cluster":             true,
	"console":             true,
	"constants":           true,
	"crypto":              true,
	"dgram":               true,
	"diagnostics_channel": true,
	"dns":                 true,
	"domain":              true,
	"events":              true,
	"fs":                  true,
	"http":                true,
	"http2":               true,
	"https":               true,
	"inspector":           true,
	"module":              true,
	"net":                 true,
	"os":                  true,
	"path":                true,
	"perf_hooks":          true,
	"process":             true,
	"punycode":            true,
	"querystring":         true,
	"readline":            true,
	"repl":                true,
	"stream":              true,
	"string_decoder":      true,
	"sys":                 true,
	"timers":              true,
	"tls":                 true,
	"trace_events":        true,
	"tty":                 true,
	"url":                 true,
	"util":                true,
	"v8":                  true,
	"vm":                  true,
	"wasi":                true,
	"worker_threads":      true,
	"zlib":                true,
}

// IsBuiltinModule reports whether specifier names a Node.js core module.
// Both "node:fs" and subpaths such as "fs/promises" are recognized.
func IsBuiltinModule(specifier string) bool {
	if rest, ok := strings.CutPrefix(specifier, "node:"); ok {
		return rest != ""
	}
	name, _, _ := strings.Cut(specifier, "/")
	return builtinModules[name]
}
