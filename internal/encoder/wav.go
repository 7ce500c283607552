package encoder

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const wavHeaderSize = 44

type wavEncoder struct{}

// NewWAV returns an encoder that writes 16-bit PCM RIFF WAVE files.
func NewWAV() Encoder {
	return wavEncoder{}
}

func (wavEncoder) Name() string      { return "wav" }
func (wavEncoder) Extension() string { return "wav" }

func (wavEncoder) Open(ctx context.Context, path string, format Format) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid wav format %+v", format)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	s := &wavStream{file: f, w: bufio.NewWriterSize(f, 256*1024), format: format}
	if err := s.writeHeader(0); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

type wavStream struct {
	file      *os.File
	w         *bufio.Writer
	format    Format
	dataBytes uint32
	buf       []byte
	closed    bool
}

type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

func (s *wavStream) header(dataBytes uint32) wavHeader {
	blockAlign := uint16(s.format.Channels * 2)
	return wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataBytes,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		Channels:      uint16(s.format.Channels),
		SampleRate:    uint32(s.format.SampleRate),
		ByteRate:      uint32(s.format.SampleRate) * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: 16,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataBytes,
	}
}

func (s *wavStream) writeHeader(dataBytes uint32) error {
	if err := binary.Write(s.w, binary.LittleEndian, s.header(dataBytes)); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	return nil
}

func (s *wavStream) Write(samples []float32, frames int) error {
	if s.closed {
		return ErrClosed
	}
	if err := checkWrite(samples, frames, s.format); err != nil {
		return err
	}
	n := frames * s.format.Channels
	if cap(s.buf) < 2*n {
		s.buf = make([]byte, 2*n)
	}
	buf := s.buf[:2*n]
	for i, v := range samples[:n] {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(toInt16(v)))
	}
	if _, err := s.w.Write(buf); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	s.dataBytes += uint32(len(buf))
	return nil
}

func (s *wavStream) FramesWritten() int64 {
	return int64(s.dataBytes) / int64(2*s.format.Channels)
}

func (s *wavStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.finalize()
	if cerr := s.file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close wav: %w", cerr)
	}
	return err
}

func (s *wavStream) finalize() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush wav: %w", err)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek wav header: %w", err)
	}
	if err := binary.Write(s.file, binary.LittleEndian, s.header(s.dataBytes)); err != nil {
		return fmt.Errorf("rewrite wav header: %w", err)
	}
	return nil
}
