package codegen

import (
	"io"
	"iter"
)

// Reader adapts a chunk sequence to an io.ReadCloser. Chunks are pulled on demand.
type Reader struct {
	next    func() (string, bool)
	stop    func()
	pending string
	done    bool
}

// NewReader returns a reader over chunks. Close releases the sequence early.
func NewReader(chunks iter.Seq[string]) *Reader {
	next, stop := iter.Pull(chunks)
	return &Reader{next: next, stop: stop}
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for r.pending == "" {
		if r.done {
			return 0, io.EOF
		}
		chunk, ok := r.next()
		if !ok {
			r.done = true
			r.stop()
			return 0, io.EOF
		}
		r.pending = chunk
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Close stops the underlying sequence.
func (r *Reader) Close() error {
	r.done = true
	r.pending = ""
	r.stop()
	return nil
}
