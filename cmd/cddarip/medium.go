package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cddarip/internal/config"
	"cddarip/internal/disc"
)

type mediumOptions struct {
	image  string
	device string
}

func (o mediumOptions) open(cfg *config.Config) (disc.Medium, error) {
	if image := strings.TrimSpace(o.image); image != "" {
		img, err := disc.OpenImage(image)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		return img, nil
	}
	device := strings.TrimSpace(o.device)
	if device == "" {
		device = cfg.Drive.Device
	}
	return disc.NewDrive(device), nil
}

func (o mediumOptions) devicePath(cfg *config.Config) string {
	if device := strings.TrimSpace(o.device); device != "" {
		return disc.ExtractDevicePath(device)
	}
	return disc.ExtractDevicePath(cfg.Drive.Device)
}

// parseTrackList parses selections such as "1,3,5-7".
func parseTrackList(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || first <= 0 {
			return nil, fmt.Errorf("invalid track %q", part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || last < first {
				return nil, fmt.Errorf("invalid track range %q", part)
			}
		}
		for n := first; n <= last; n++ {
			out = append(out, n)
		}
	}
	return out, nil
}

// metadataOverrides replaces descriptive fields on every selected track.
type metadataOverrides struct {
	artist  string
	album   string
	genre   string
	comment string
	year    int
	titles  []string
	artwork string
}

func (m metadataOverrides) apply(tracks []disc.Track) error {
	titles := make(map[int]string, len(m.titles))
	for _, entry := range m.titles {
		num, title, ok := strings.Cut(entry, "=")
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if !ok || err != nil {
			return fmt.Errorf("invalid --title %q (want N=Title)", entry)
		}
		titles[n] = strings.TrimSpace(title)
	}
	var artwork []byte
	if path := strings.TrimSpace(m.artwork); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read artwork: %w", err)
		}
		artwork = data
	}
	for i := range tracks {
		meta := &tracks[i].Metadata
		setIf(&meta.Artist, m.artist)
		setIf(&meta.Album, m.album)
		setIf(&meta.Genre, m.genre)
		setIf(&meta.Comment, m.comment)
		if m.year > 0 {
			meta.Year = m.year
		}
		if title, ok := titles[tracks[i].Number]; ok {
			meta.Title = title
		}
		if artwork != nil {
			meta.Artwork = artwork
		}
	}
	return nil
}

func setIf(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func formatDuration(sectors int) string {
	frames := sectors % disc.SectorsPerSecond
	seconds := sectors / disc.SectorsPerSecond
	return fmt.Sprintf("%02d:%02d.%02d", seconds/60, seconds%60, frames)
}
