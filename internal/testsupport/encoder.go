package testsupport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cddarip/internal/encoder"
)

// RecordingEncoder is an in-memory encoder.Encoder that keeps every sample
// written to it.
type RecordingEncoder struct {
	Ext string
	// OpenErr is returned from Open when set.
	OpenErr error
	// FailWrite makes the n-th Write across all streams fail (1-based).
	FailWrite int
	// FrameSkew is added to the frame count streams report.
	FrameSkew int64
	// OnWrite, when set, runs after every successful Write.
	OnWrite func(path string, frames int)

	mu      sync.Mutex
	streams []*RecordedStream
	writes  int
}

// RecordedStream is one stream opened on a RecordingEncoder.
type RecordedStream struct {
	Path    string
	Format  encoder.Format
	Samples []float32
	Frames  int64
	Closed  bool

	enc *RecordingEncoder
}

// NewRecordingEncoder returns an encoder producing files with extension ext.
func NewRecordingEncoder(ext string) *RecordingEncoder {
	return &RecordingEncoder{Ext: ext}
}

// Name implements encoder.Encoder.
func (e *RecordingEncoder) Name() string { return "recording" }

// Extension implements encoder.Encoder.
func (e *RecordingEncoder) Extension() string {
	if e.Ext == "" {
		return "raw"
	}
	return e.Ext
}

// Open implements encoder.Encoder.
func (e *RecordingEncoder) Open(ctx context.Context, path string, format encoder.Format) (encoder.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.OpenErr != nil {
		return nil, e.OpenErr
	}
	s := &RecordedStream{Path: path, Format: format, enc: e}
	e.mu.Lock()
	e.streams = append(e.streams, s)
	e.mu.Unlock()
	return &recordingStream{s}, nil
}

// Streams returns copies of every stream opened so far in open order.
func (e *RecordingEncoder) Streams() []RecordedStream {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RecordedStream, len(e.streams))
	for i, s := range e.streams {
		out[i] = *s
		out[i].Samples = append([]float32(nil), s.Samples...)
		out[i].enc = nil
	}
	return out
}

// Writes returns the number of successful writes.
func (e *RecordingEncoder) Writes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes
}

type recordingStream struct {
	s *RecordedStream
}

func (r *recordingStream) Write(samples []float32, frames int) error {
	e := r.s.enc
	e.mu.Lock()
	if r.s.Closed {
		e.mu.Unlock()
		return encoder.ErrClosed
	}
	n := frames * r.s.Format.Channels
	if n > len(samples) {
		e.mu.Unlock()
		return fmt.Errorf("write %d frames: only %d samples", frames, len(samples))
	}
	if e.FailWrite > 0 && e.writes+1 == e.FailWrite {
		e.mu.Unlock()
		return errors.New("recording encoder: injected write failure")
	}
	e.writes++
	r.s.Samples = append(r.s.Samples, samples[:n]...)
	r.s.Frames += int64(frames)
	hook := e.OnWrite
	path := r.s.Path
	e.mu.Unlock()
	if hook != nil {
		hook(path, frames)
	}
	return nil
}

func (r *recordingStream) FramesWritten() int64 {
	e := r.s.enc
	e.mu.Lock()
	defer e.mu.Unlock()
	return r.s.Frames + e.FrameSkew
}

func (r *recordingStream) Close() error {
	e := r.s.enc
	e.mu.Lock()
	defer e.mu.Unlock()
	r.s.Closed = true
	return nil
}
