package encoder

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

var ffmpegCodecs = map[string][]string{
	"flac": {"-c:a", "flac"},
	"mp3":  {"-c:a", "libmp3lame"},
	"opus": {"-c:a", "libopus"},
	"ogg":  {"-c:a", "libvorbis"},
	"m4a":  {"-c:a", "aac"},
	"wav":  {"-c:a", "pcm_s16le"},
}

type ffmpegEncoder struct {
	binary   string
	format   string
	settings []string
}

// NewFFmpeg returns an encoder that pipes raw float samples to ffmpeg.
// settings are split on whitespace and passed before the output path.
func NewFFmpeg(binary, format, settings string) (Encoder, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if _, ok := ffmpegCodecs[format]; !ok {
		return nil, fmt.Errorf("ffmpeg encoder: unsupported format %q", format)
	}
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &ffmpegEncoder{binary: binary, format: format, settings: strings.Fields(settings)}, nil
}

func (e *ffmpegEncoder) Name() string      { return "ffmpeg" }
func (e *ffmpegEncoder) Extension() string { return e.format }

// Args returns the ffmpeg argument list for path.
func (e *ffmpegEncoder) Args(path string, format Format) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "f32le",
		"-ar", strconv.Itoa(format.SampleRate),
		"-ac", strconv.Itoa(format.Channels),
		"-i", "pipe:0",
	}
	args = append(args, ffmpegCodecs[e.format]...)
	args = append(args, e.settings...)
	return append(args, path)
}

func (e *ffmpegEncoder) Open(ctx context.Context, path string, format Format) (Stream, error) {
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid ffmpeg format %+v", format)
	}
	cmd := exec.CommandContext(ctx, e.binary, e.Args(path, format)...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	stream := &ffmpegStream{cmd: cmd, stdin: stdin, format: format}
	cmd.Stderr = &stream.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return stream, nil
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	format Format
	buf    []byte
	frames int64
	closed bool
}

func (s *ffmpegStream) Write(samples []float32, frames int) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkWrite(samples, frames, s.format); err != nil {
		return err
	}
	n := frames * s.format.Channels
	if cap(s.buf) < 4*n {
		s.buf = make([]byte, 4*n)
	}
	buf := s.buf[:4*n]
	for i, v := range samples[:n] {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	if _, err := s.stdin.Write(buf); err != nil {
		return fmt.Errorf("ffmpeg write: %w", err)
	}
	s.frames += int64(frames)
	return nil
}

func (s *ffmpegStream) FramesWritten() int64 {
	return s.frames
}

func (s *ffmpegStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	closeErr := s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	if closeErr != nil {
		return fmt.Errorf("ffmpeg stdin close: %w", closeErr)
	}
	return nil
}
