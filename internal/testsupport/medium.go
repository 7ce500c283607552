package testsupport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cddarip/internal/disc"
)

// ScriptedMedium is an in-memory disc.Medium whose sectors can be made to
// return a scripted sequence of values on successive reads.
type ScriptedMedium struct {
	Name      string
	TrackList []disc.Track
	// OpenErr is returned from Open when set.
	OpenErr error
	// OnRead, when set, is called for every sector handed out by a batch read.
	OnRead func(index int)

	mu         sync.Mutex
	script     map[int][]disc.Sector
	unreadable map[int]bool
	reads      map[int]int
	opens      int
	closes     int
}

// NewScriptedMedium builds a medium whose tracks are laid out back to back
// starting at sector 0 with the given sector counts.
func NewScriptedMedium(counts ...int) *ScriptedMedium {
	m := &ScriptedMedium{
		Name:       "scripted",
		script:     make(map[int][]disc.Sector),
		unreadable: make(map[int]bool),
		reads:      make(map[int]int),
	}
	start := 0
	for i, count := range counts {
		m.TrackList = append(m.TrackList, disc.Track{
			Number: i + 1,
			Start:  start,
			Count:  count,
			Metadata: disc.Metadata{
				Title:  fmt.Sprintf("Track %d", i+1),
				Artist: "Test Artist",
				Album:  "Test Album",
				Genre:  "Test",
				Year:   2001,
			},
		})
		start += count
	}
	return m
}

// Script makes the n-th read of index return values[n]. Reads past the end of
// the script return data that never matches anything seen before.
func (m *ScriptedMedium) Script(index int, values ...disc.Sector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script[index] = values
}

// SetUnreadable makes every read of index fail.
func (m *ScriptedMedium) SetUnreadable(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unreadable[index] = true
}

// Reads returns how many times index was read.
func (m *ScriptedMedium) Reads(index int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[index]
}

// Opens returns the number of Open calls and Close calls observed.
func (m *ScriptedMedium) Opens() (opens, closes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens, m.closes
}

// ID implements disc.Medium.
func (m *ScriptedMedium) ID() string {
	return m.Name
}

// Tracks implements disc.Medium.
func (m *ScriptedMedium) Tracks(ctx context.Context) ([]disc.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]disc.Track, len(m.TrackList))
	copy(out, m.TrackList)
	return out, nil
}

// Open implements disc.Medium.
func (m *ScriptedMedium) Open(ctx context.Context) (disc.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.mu.Lock()
	m.opens++
	m.mu.Unlock()
	return &scriptedReader{medium: m}, nil
}

type scriptedReader struct {
	medium *ScriptedMedium
	closed bool
}

func (r *scriptedReader) ReadBatch(start, max int) ([]disc.Sector, error) {
	if r.closed {
		return nil, errors.New("reader closed")
	}
	m := r.medium
	var out []disc.Sector
	for index := start; index < start+max; index++ {
		m.mu.Lock()
		if m.unreadable[index] {
			m.mu.Unlock()
			if len(out) == 0 {
				return nil, fmt.Errorf("sector %d unreadable", index)
			}
			return out, nil
		}
		n := m.reads[index]
		m.reads[index] = n + 1
		var sector disc.Sector
		if values, ok := m.script[index]; ok {
			if n < len(values) {
				sector = append(disc.Sector(nil), values[n]...)
			} else {
				sector = NoiseSector(index, n)
			}
		} else {
			sector = StableSector(index)
		}
		hook := m.OnRead
		m.mu.Unlock()
		if hook != nil {
			hook(index)
		}
		out = append(out, sector)
	}
	return out, nil
}

func (r *scriptedReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.medium.mu.Lock()
	r.medium.closes++
	r.medium.mu.Unlock()
	return nil
}

// StableSector returns deterministic audio content for index.
func StableSector(index int) disc.Sector {
	return PatternSector(func(offset int) int16 {
		return int16((index*7919 + offset*31) % 20000)
	})
}

// NoiseSector returns content for read n of index that differs from every
// other read.
func NoiseSector(index, n int) disc.Sector {
	return PatternSector(func(offset int) int16 {
		return int16(-(index*104729 + n*7 + offset + 1) % 30000)
	})
}

// ConstantSector returns a sector whose every sample is v.
func ConstantSector(v int16) disc.Sector {
	return PatternSector(func(int) int16 { return v })
}

// PatternSector builds a sector from a per-offset sample generator.
func PatternSector(sample func(offset int) int16) disc.Sector {
	s := make(disc.Sector, disc.SectorSize)
	for offset := range disc.SamplesPerSector {
		s.SetSample(offset, sample(offset))
	}
	return s
}
