// Package tags computes and writes descriptive and ReplayGain tags for
// extracted audio files.
package tags

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"cddarip/internal/disc"
)

// Kind identifies one tag value.
type Kind int

const (
	Title Kind = iota
	Artist
	Album
	Genre
	Comment
	Track
	Year
	TrackPeak
	TrackGain
	AlbumPeak
	AlbumGain
	Artwork
)

var kindNames = map[Kind]string{
	Title:     "title",
	Artist:    "artist",
	Album:     "album",
	Genre:     "genre",
	Comment:   "comment",
	Track:     "track",
	Year:      "year",
	TrackPeak: "replaygain_track_peak",
	TrackGain: "replaygain_track_gain",
	AlbumPeak: "replaygain_album_peak",
	AlbumGain: "replaygain_album_gain",
	Artwork:   "artwork",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Set maps tag kinds to their string values. Artwork is base64 encoded.
type Set map[Kind]string

// Merge copies every value of other into s.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v
	}
}

// Values returns s keyed by tag name.
func (s Set) Values() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k.String()] = v
	}
	return out
}

// FormatPeak renders a linear sample peak.
func FormatPeak(peak float64) string {
	return strconv.FormatFloat(peak, 'f', 6, 64)
}

// FormatGain renders a gain adjustment in decibels.
func FormatGain(gain float64) string {
	return fmt.Sprintf("%+.2f dB", gain)
}

// FromMetadata returns the descriptive tags for meta. Empty values are left
// out. number is omitted when zero.
func FromMetadata(meta disc.Metadata, number int) Set {
	set := Set{}
	put := func(k Kind, v string) {
		if v = strings.TrimSpace(v); v != "" {
			set[k] = v
		}
	}
	put(Title, meta.Title)
	put(Artist, meta.Artist)
	put(Album, meta.Album)
	put(Genre, meta.Genre)
	put(Comment, meta.Comment)
	if meta.Year > 0 {
		set[Year] = strconv.Itoa(meta.Year)
	}
	if number > 0 {
		set[Track] = strconv.Itoa(number)
	}
	if len(meta.Artwork) > 0 {
		set[Artwork] = base64.StdEncoding.EncodeToString(meta.Artwork)
	}
	return set
}

// Common returns the descriptive tags shared by every metadata value, used
// when several tracks are joined into one file.
func Common(metas []disc.Metadata) Set {
	if len(metas) == 0 {
		return Set{}
	}
	common := FromMetadata(metas[0], 0)
	for _, meta := range metas[1:] {
		other := FromMetadata(meta, 0)
		for k, v := range common {
			if other[k] != v {
				delete(common, k)
			}
		}
	}
	return common
}

// Writer persists tags into an audio file.
type Writer interface {
	WriteTags(ctx context.Context, path string, set Set) error
}

// Router dispatches to a Writer by file extension. Files without a writer
// are skipped without error.
type Router struct {
	writers map[string]Writer
}

// NewRouter returns a router with the built-in writers registered.
func NewRouter() *Router {
	r := &Router{writers: make(map[string]Writer)}
	r.Register("mp3", ID3Writer{})
	return r
}

// Register installs w for files with extension ext.
func (r *Router) Register(ext string, w Writer) {
	r.writers[normalizeExt(ext)] = w
}

// Supports reports whether a writer exists for path.
func (r *Router) Supports(path string) bool {
	_, ok := r.writers[normalizeExt(filepath.Ext(path))]
	return ok
}

// WriteTags implements Writer.
func (r *Router) WriteTags(ctx context.Context, path string, set Set) error {
	w, ok := r.writers[normalizeExt(filepath.Ext(path))]
	if !ok {
		return nil
	}
	return w.WriteTags(ctx, path, set)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
