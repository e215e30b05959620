package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/prcl/internal/core/domain"
	"go.trai.ch/prcl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter writes build outputs through a temporary file in the target
// directory that is renamed into place once complete.
type ArtifactWriter struct{}

// NewArtifactWriter creates a new ArtifactWriter.
func NewArtifactWriter() *ArtifactWriter {
	return &ArtifactWriter{}
}

// WriteArtifact replaces the file at path with the output of write.
func (a *ArtifactWriter) WriteArtifact(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	return nil
}
