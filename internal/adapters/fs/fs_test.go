package fs_test

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prcl/internal/adapters/fs"
	"go.trai.ch/prcl/internal/core/domain"
)

func TestFileSystem_IsFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.js")
	require.NoError(t, os.WriteFile(file, []byte("1"), domain.FilePerm))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "dir"), domain.DirPerm))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: filepath.Join(tmpDir, "dir"), want: false},
		{name: "missing", path: filepath.Join(tmpDir, "missing.js"), want: false},
		{name: "through a file", path: filepath.Join(file, "index.js"), want: false},
	}

	fsys := fs.NewFileSystem()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fsys.IsFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSystem_ReadFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.js")
	require.NoError(t, os.WriteFile(file, []byte("module.exports = 1\n"), domain.FilePerm))

	fsys := fs.NewFileSystem()

	data, err := fsys.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "module.exports = 1\n", string(data))

	_, err = fsys.ReadFile(filepath.Join(tmpDir, "missing.js"))
	require.Error(t, err)
	assert.ErrorIs(t, err, iofs.ErrNotExist)
}

func TestFileSystem_ReadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	valid := filepath.Join(tmpDir, "package.json")
	invalid := filepath.Join(tmpDir, "broken.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"main": "lib/index.js"}`), domain.FilePerm))
	require.NoError(t, os.WriteFile(invalid, []byte(`{"main":`), domain.FilePerm))

	fsys := fs.NewFileSystem()

	var desc struct {
		Main string `json:"main"`
	}
	require.NoError(t, fsys.ReadJSON(valid, &desc))
	assert.Equal(t, "lib/index.js", desc.Main)

	require.Error(t, fsys.ReadJSON(invalid, &desc))
}

func TestArtifactWriter_WriteArtifact(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "dist", "bundle.js")

	w := fs.NewArtifactWriter()
	err := w.WriteArtifact(target, func(out io.Writer) error {
		_, err := io.WriteString(out, "first")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	t.Run("failed write keeps previous content", func(t *testing.T) {
		errBoom := errors.New("boom")
		err := w.WriteArtifact(target, func(out io.Writer) error {
			_, _ = io.WriteString(out, "partial")
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))

		entries, err := os.ReadDir(filepath.Dir(target))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary file must be removed")
	})
}

func TestHasher(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "bundle.js")
	require.NoError(t, os.WriteFile(file, []byte("content"), domain.FilePerm))

	h := fs.NewHasher()

	fromFile, err := h.HashFile(file)
	require.NoError(t, err)
	assert.Len(t, fromFile, 16)

	fromReader, err := h.HashReader(strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromReader)

	other, err := h.HashReader(strings.NewReader("other"))
	require.NoError(t, err)
	assert.NotEqual(t, fromFile, other)

	_, err = h.HashFile(filepath.Join(tmpDir, "missing"))
	require.Error(t, err)
}
