package extraction

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"cddarip/internal/disc"
)

// Job is one extraction request. Tracks are encoded in the order given.
type Job struct {
	ID     string
	Tracks []disc.Track
	// Join writes all tracks into a single file.
	Join bool
	// JoinName is the filename template for joined output. Empty uses "%a - %d".
	JoinName string
	// ToLibrary records the job and its files in the catalog.
	ToLibrary bool
}

// NewJob returns a job for tracks with a fresh identifier.
func NewJob(tracks []disc.Track) Job {
	return Job{ID: uuid.NewString(), Tracks: tracks}
}

func (j Job) validate() error {
	if len(j.Tracks) == 0 {
		return errors.New("job has no tracks")
	}
	seen := make(map[int]struct{}, len(j.Tracks))
	for _, t := range j.Tracks {
		if t.Count <= 0 {
			return fmt.Errorf("track %d has no sectors", t.Number)
		}
		if _, dup := seen[t.Number]; dup {
			return fmt.Errorf("track %d requested twice", t.Number)
		}
		seen[t.Number] = struct{}{}
	}
	return nil
}

// SelectTracks returns the tracks of all whose numbers appear in numbers, in
// the order of numbers. An empty selection returns all tracks.
func SelectTracks(all []disc.Track, numbers []int) ([]disc.Track, error) {
	if len(all) == 0 {
		return nil, disc.ErrNoAudioTracks
	}
	if len(numbers) == 0 {
		return slices.Clone(all), nil
	}
	out := make([]disc.Track, 0, len(numbers))
	for _, n := range numbers {
		idx := slices.IndexFunc(all, func(t disc.Track) bool { return t.Number == n })
		if idx < 0 {
			return nil, fmt.Errorf("track %d not on medium", n)
		}
		out = append(out, all[idx])
	}
	return out, nil
}
