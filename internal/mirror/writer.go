package mirror

import (
	"fmt"
	"os"
	"sync"

	"github.com/nao1215/sitemirror/internal/model"
)

// FilePerm is the permission used for written files.
const FilePerm = 0o644

// Writer persists artifacts, creating or truncating each file.
//
// A path is written at most once per Writer. The path is reserved under the
// mutex before the file is touched, so two workers that map to the same file
// cannot interleave their writes: the second one gets an error instead.
type Writer struct {
	mu      sync.Mutex
	written map[string]struct{}
}

// NewWriter creates a Writer with an empty written set.
func NewWriter() *Writer {
	return &Writer{written: make(map[string]struct{})}
}

// Write stores a.Content at a.Path as UTF-8 text.
// Errors wrap model.ErrWrite.
func (w *Writer) Write(a model.Artifact) error {
	if a.Path == "" {
		return fmt.Errorf("%w: empty path", model.ErrWrite)
	}

	if !w.reserve(a.Path) {
		return fmt.Errorf("%w: %s was already written in this run", model.ErrWrite, a.Path)
	}

	if err := os.WriteFile(a.Path, []byte(a.Content), FilePerm); err != nil {
		w.release(a.Path)
		return fmt.Errorf("%w: %w", model.ErrWrite, err)
	}

	return nil
}

// Written returns the number of files written so far.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written)
}

// reserve claims p. It reports false when p is already claimed.
func (w *Writer) reserve(p string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.written[p]; ok {
		return false
	}
	w.written[p] = struct{}{}
	return true
}

// release gives up a claim after a failed write.
func (w *Writer) release(p string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.written, p)
}
