package consensus

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"cddarip/internal/disc"
)

// DefaultMaxPasses bounds the number of full scans of a track.
const DefaultMaxPasses = 9

// ErrUnrecoverable reports that at least one sector never produced any data.
var ErrUnrecoverable = errors.New("sectors could not be read")

// Phase identifies what the reader is doing when it reports progress.
type Phase int

const (
	PhaseReading Phase = iota
	PhaseFixing
)

func (p Phase) String() string {
	switch p {
	case PhaseReading:
		return "reading"
	case PhaseFixing:
		return "fixing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ProgressFunc receives the current pass, phase and fraction complete for
// that phase. It runs on the reading goroutine and must not block.
type ProgressFunc func(pass int, phase Phase, fraction float64)

// Options configures a consensus read.
type Options struct {
	MaxPasses    int
	BatchSectors int
	Progress     ProgressFunc
}

// Stats summarizes a completed read.
type Stats struct {
	// Passes is the number of full scans performed.
	Passes int
	// ResolvedPerPass counts sectors confirmed by a matching read in each pass.
	ResolvedPerPass []int
	// Reconstructed counts sectors rebuilt from their modal samples.
	Reconstructed int
	// BatchReads counts physical reads issued to the medium.
	BatchReads int
}

// Resolved returns the number of sectors confirmed by matching reads.
func (s Stats) Resolved() int {
	total := 0
	for _, n := range s.ResolvedPerPass {
		total += n
	}
	return total
}

// Read scans track repeatedly through reader and returns exactly track.Count
// sectors in index order.
func Read(ctx context.Context, reader disc.Reader, track disc.Track, opts Options) ([]disc.Sector, Stats, error) {
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(int, Phase, float64) {}
	}

	count := track.Count
	var stats Stats
	if count <= 0 {
		return nil, stats, nil
	}

	cache := disc.NewBatchCache(reader, opts.BatchSectors)
	sets := make([]*candidates, count)
	pending := make([]bool, count)
	for i := range pending {
		pending[i] = true
	}
	remaining := count

	for pass := 1; pass <= maxPasses && remaining > 0; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		stats.Passes = pass
		stats.ResolvedPerPass = append(stats.ResolvedPerPass, 0)
		progress(pass, PhaseReading, 0)
		cache.Invalidate()

		// Every index is read on every pass so the drive cannot answer the
		// unresolved ones from its own buffer.
		for i := 0; i < count && remaining > 0; i++ {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
			sector, ok := cache.Sector(track.Start+i, track.End())
			if ok && pending[i] {
				set := sets[i]
				if set == nil {
					set = &candidates{}
					sets[i] = set
				}
				if set.observe(sector) {
					pending[i] = false
					remaining--
					stats.ResolvedPerPass[pass-1]++
				}
			}
			progress(pass, PhaseReading, float64(i+1)/float64(count))
		}
	}
	stats.BatchReads = cache.Reads()

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	missing := 0
	for _, set := range sets {
		if set == nil {
			missing++
		}
	}
	if missing > 0 {
		return nil, stats, fmt.Errorf("%w: %d of %d sectors in track %d returned no data", ErrUnrecoverable, missing, count, track.Number)
	}

	if remaining > 0 {
		done := 0
		progress(stats.Passes, PhaseFixing, 0)
		for i, set := range sets {
			if !pending[i] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
			set.collapse(Modal(set.values))
			stats.Reconstructed++
			done++
			progress(stats.Passes, PhaseFixing, float64(done)/float64(remaining))
		}
	}

	out := make([]disc.Sector, count)
	for i, set := range sets {
		out[i] = set.values[0]
	}
	return out, stats, nil
}

// candidates holds the distinct values observed for one sector index.
type candidates struct {
	values []disc.Sector
}

// observe records sector and reports whether it matched an earlier read, in
// which case the set collapses to that value.
func (c *candidates) observe(sector disc.Sector) bool {
	for _, value := range c.values {
		if bytes.Equal(value, sector) {
			c.collapse(value)
			return true
		}
	}
	c.values = append(c.values, bytes.Clone(sector))
	return false
}

func (c *candidates) collapse(value disc.Sector) {
	c.values = []disc.Sector{value}
}

// Modal builds a sector whose every sample is the most frequent value at that
// offset across values. Equal counts resolve to the smallest sample value.
func Modal(values []disc.Sector) disc.Sector {
	out := make(disc.Sector, disc.SectorSize)
	if len(values) == 0 {
		return out
	}
	samples := make([]int16, len(values))
	for offset := range disc.SamplesPerSector {
		for i, value := range values {
			samples[i] = value.Sample(offset)
		}
		out.SetSample(offset, modalSample(samples))
	}
	return out
}

func modalSample(samples []int16) int16 {
	best, bestCount := samples[0], 0
	for _, candidate := range samples {
		n := 0
		for _, other := range samples {
			if other == candidate {
				n++
			}
		}
		if n > bestCount || (n == bestCount && candidate < best) {
			best, bestCount = candidate, n
		}
	}
	return best
}
