package domain

import "path/filepath"

const (
	// PrclDirName is the name of the internal metadata directory.
	PrclDirName = ".prcl"

	// StoreDirName is the name of the bundle info store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "prcl.yaml"

	// ModulesDirName is the directory searched for bare specifiers.
	ModulesDirName = "node_modules"

	// PackageFileName is the package descriptor consulted for a directory's main file.
	PackageFileName = "package.json"

	// JSExt is the extension tried first when a specifier names no file.
	JSExt = ".js"

	// JSONExt is the extension of files evaluated as data.
	JSONExt = ".json"

	// IndexName is the base name tried inside a directory.
	IndexName = "index"

	// SourceMapExt is appended to the output path to name the source map.
	SourceMapExt = ".map"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the bundle info store.
// It joins .prcl and store.
func DefaultStorePath() string {
	return filepath.Join(PrclDirName, StoreDirName)
}

// SourceMapPath returns the source map file written next to output.
func SourceMapPath(output string) string {
	return output + SourceMapExt
}
