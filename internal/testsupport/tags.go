package testsupport

import (
	"context"
	"sync"

	"cddarip/internal/tags"
)

// TagWrite is one call observed by a RecordingTagWriter.
type TagWrite struct {
	Path string
	Set  tags.Set
}

// RecordingTagWriter is a tags.Writer that remembers every call.
type RecordingTagWriter struct {
	// Err is returned from every WriteTags call when set.
	Err error

	mu     sync.Mutex
	writes []TagWrite
}

// WriteTags implements tags.Writer.
func (w *RecordingTagWriter) WriteTags(ctx context.Context, path string, set tags.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	copied := tags.Set{}
	copied.Merge(set)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, TagWrite{Path: path, Set: copied})
	return w.Err
}

// Writes returns the calls observed so far.
func (w *RecordingTagWriter) Writes() []TagWrite {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]TagWrite(nil), w.writes...)
}

// Merged returns the union of every set written to path, later writes
// overriding earlier ones.
func (w *RecordingTagWriter) Merged(path string) tags.Set {
	out := tags.Set{}
	for _, write := range w.Writes() {
		if write.Path == path {
			out.Merge(write.Set)
		}
	}
	return out
}
