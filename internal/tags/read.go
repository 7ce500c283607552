package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// Info is the tag content read back from a file.
type Info struct {
	Format     string
	FileType   string
	Title      string
	Artist     string
	Album      string
	Genre      string
	Year       int
	Track      int
	HasPicture bool
	// ReplayGain holds REPLAYGAIN_* user text values keyed by upper-case name.
	ReplayGain map[string]string
}

// Read parses the tags of the file at path.
func Read(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Info{}, fmt.Errorf("could not read tags: %w", err)
	}

	track, _ := m.Track()
	info := Info{
		Format:     string(m.Format()),
		FileType:   string(m.FileType()),
		Title:      m.Title(),
		Artist:     m.Artist(),
		Album:      m.Album(),
		Genre:      m.Genre(),
		Year:       m.Year(),
		Track:      track,
		HasPicture: m.Picture() != nil,
		ReplayGain: make(map[string]string),
	}
	for key, raw := range m.Raw() {
		switch v := raw.(type) {
		case *tag.Comm:
			name := strings.ToUpper(strings.TrimSpace(v.Description))
			if strings.HasPrefix(name, "REPLAYGAIN_") {
				info.ReplayGain[name] = strings.TrimSpace(v.Text)
			}
		case string:
			name := strings.ToUpper(key)
			if strings.HasPrefix(name, "REPLAYGAIN_") {
				info.ReplayGain[name] = strings.TrimSpace(v)
			}
		}
	}
	return info, nil
}
