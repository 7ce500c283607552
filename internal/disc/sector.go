package disc

import (
	"context"
	"errors"
	"time"
)

// Red Book audio layout.
const (
	SampleRate       = 44100
	Channels         = 2
	BytesPerSample   = 2
	SectorsPerSecond = 75
	SectorSize       = 2352
	SamplesPerSector = SectorSize / BytesPerSample
	FramesPerSector  = SamplesPerSector / Channels
	BytesPerFrame    = Channels * BytesPerSample
)

var (
	// ErrUnsupported reports that physical drive access is not available on this platform.
	ErrUnsupported = errors.New("optical drive access is not supported on this platform")
	// ErrNoAudioTracks reports a medium without any audio tracks.
	ErrNoAudioTracks = errors.New("no audio tracks on medium")
	// ErrOutOfRange reports a read outside the medium.
	ErrOutOfRange = errors.New("sector out of range")
)

// Sector is one raw audio sector: 1176 signed 16-bit little-endian samples
// interleaved left/right.
type Sector []byte

// Sample returns the signed sample at offset i (0..SamplesPerSector-1).
func (s Sector) Sample(i int) int16 {
	return int16(uint16(s[2*i]) | uint16(s[2*i+1])<<8)
}

// SetSample stores v at sample offset i.
func (s Sector) SetSample(i int, v int16) {
	s[2*i] = byte(uint16(v))
	s[2*i+1] = byte(uint16(v) >> 8)
}

// Metadata carries the descriptive values written as tags for a track.
type Metadata struct {
	Title   string
	Artist  string
	Album   string
	Genre   string
	Comment string
	Year    int
	// Artwork holds encoded image bytes (JPEG or PNG).
	Artwork []byte
}

// Track describes one audio track on a medium.
type Track struct {
	Number   int
	Start    int
	Count    int
	Metadata Metadata
}

// End returns the first sector index past the track.
func (t Track) End() int {
	return t.Start + t.Count
}

// Bytes returns the PCM byte length of the track.
func (t Track) Bytes() int {
	return t.Count * SectorSize
}

// Frames returns the number of stereo sample frames in the track.
func (t Track) Frames() int {
	return t.Count * FramesPerSector
}

// Duration returns the playing time of the track.
func (t Track) Duration() time.Duration {
	return time.Duration(t.Count) * time.Second / SectorsPerSecond
}

// Reader performs batched sector reads on an opened medium.
type Reader interface {
	// ReadBatch reads up to max consecutive sectors starting at start. It may
	// return fewer sectors than requested. An error means no data was
	// obtained for this attempt.
	ReadBatch(start, max int) ([]Sector, error)
	Close() error
}

// Medium is a source of audio tracks: a physical drive or a disc image.
type Medium interface {
	// ID identifies the medium in logs and the catalog.
	ID() string
	Open(ctx context.Context) (Reader, error)
	// Tracks lists the audio tracks in disc order. Data tracks are omitted.
	Tracks(ctx context.Context) ([]Track, error)
}
