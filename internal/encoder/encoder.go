// Package encoder turns streams of float PCM samples into audio files.
//
// Two backends exist: a native RIFF WAVE writer and an ffmpeg pipe that can
// produce any container ffmpeg supports. Both share the Encoder and Stream
// contracts so the extraction pipeline never needs to know which is in use.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cddarip/internal/config"
)

// ErrClosed reports a write to a closed stream.
var ErrClosed = errors.New("stream closed")

// Format describes the PCM layout handed to an encoder.
type Format struct {
	SampleRate int
	Channels   int
}

// Stream is one open output file.
type Stream interface {
	// Write encodes frames interleaved frames of samples scaled to ±1.0.
	Write(samples []float32, frames int) error
	// Close flushes and finalizes the file.
	Close() error
}

// FrameCounter is implemented by streams that report how many frames they
// have accepted. The extraction pipeline uses it to verify sample counts.
type FrameCounter interface {
	FramesWritten() int64
}

// Encoder opens output streams.
type Encoder interface {
	Name() string
	// Extension is the file extension without a leading dot.
	Extension() string
	Open(ctx context.Context, path string, format Format) (Stream, error)
}

// New constructs the encoder selected by cfg.
func New(cfg config.Encoder, ffmpegBinary string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", "wav":
		return NewWAV(), nil
	case "ffmpeg":
		return NewFFmpeg(ffmpegBinary, cfg.Format, cfg.Settings)
	default:
		return nil, fmt.Errorf("unknown encoder %q", cfg.Name)
	}
}

func checkWrite(samples []float32, frames int, format Format) error {
	if frames < 0 || len(samples) < frames*format.Channels {
		return fmt.Errorf("write %d frames: only %d samples supplied", frames, len(samples))
	}
	return nil
}

func toInt16(v float32) int16 {
	scaled := float64(v) * 32768
	switch {
	case scaled >= 32767:
		return 32767
	case scaled <= -32768:
		return -32768
	case scaled >= 0:
		return int16(scaled + 0.5)
	default:
		return int16(scaled - 0.5)
	}
}
