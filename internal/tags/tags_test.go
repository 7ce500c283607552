package tags

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cddarip/internal/disc"
)

func TestFormatters(t *testing.T) {
	if got := FormatPeak(0.98765432); got != "0.987654" {
		t.Fatalf("FormatPeak = %q", got)
	}
	if got := FormatGain(-7.456); got != "-7.46 dB" {
		t.Fatalf("FormatGain = %q", got)
	}
	if got := FormatGain(3); got != "+3.00 dB" {
		t.Fatalf("FormatGain = %q", got)
	}
}

func TestFromMetadata(t *testing.T) {
	meta := disc.Metadata{Title: " Intro ", Artist: "Band", Year: 1999, Artwork: []byte{1, 2, 3}}
	set := FromMetadata(meta, 4)
	if set[Title] != "Intro" || set[Artist] != "Band" || set[Year] != "1999" || set[Track] != "4" {
		t.Fatalf("unexpected set %v", set.Values())
	}
	if _, ok := set[Album]; ok {
		t.Fatal("empty album must be omitted")
	}
	if set[Artwork] != base64.StdEncoding.EncodeToString([]byte{1, 2, 3}) {
		t.Fatalf("artwork = %q", set[Artwork])
	}
	if _, ok := FromMetadata(meta, 0)[Track]; ok {
		t.Fatal("zero track number must be omitted")
	}
}

func TestCommonKeepsSharedValues(t *testing.T) {
	common := Common([]disc.Metadata{
		{Title: "One", Artist: "Band", Album: "LP", Year: 2000},
		{Title: "Two", Artist: "Band", Album: "LP", Year: 2001},
	})
	if common[Artist] != "Band" || common[Album] != "LP" {
		t.Fatalf("unexpected common %v", common.Values())
	}
	if _, ok := common[Title]; ok {
		t.Fatal("differing titles must be dropped")
	}
	if _, ok := common[Year]; ok {
		t.Fatal("differing years must be dropped")
	}
}

func TestKindString(t *testing.T) {
	if TrackGain.String() != "replaygain_track_gain" || Kind(99).String() != "kind(99)" {
		t.Fatal("unexpected kind names")
	}
}

type recordingWriter struct {
	paths []string
}

func (r *recordingWriter) WriteTags(_ context.Context, path string, _ Set) error {
	r.paths = append(r.paths, path)
	return nil
}

func TestRouterDispatchesByExtension(t *testing.T) {
	r := NewRouter()
	rec := &recordingWriter{}
	r.Register(".FLAC", rec)

	if err := r.WriteTags(context.Background(), "/x/a.flac", Set{}); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteTags(context.Background(), "/x/a.wav", Set{}); err != nil {
		t.Fatalf("unsupported container must be skipped, got %v", err)
	}
	if len(rec.paths) != 1 || rec.paths[0] != "/x/a.flac" {
		t.Fatalf("unexpected dispatch %v", rec.paths)
	}
	if !r.Supports("song.MP3") || r.Supports("song.wav") {
		t.Fatal("unexpected Supports result")
	}
}

func TestID3WriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	set := FromMetadata(disc.Metadata{Title: "So What", Artist: "Miles Davis", Album: "Kind of Blue", Genre: "Jazz"}, 1)
	set[TrackPeak] = FormatPeak(0.5)
	set[TrackGain] = FormatGain(-3.21)

	w := ID3Writer{}
	if err := w.WriteTags(context.Background(), path, set); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}
	// A later album pass adds values without disturbing the track ones.
	if err := w.WriteTags(context.Background(), path, Set{AlbumGain: FormatGain(-4), AlbumPeak: FormatPeak(0.9)}); err != nil {
		t.Fatalf("WriteTags album: %v", err)
	}

	info, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if info.Title != "So What" || info.Artist != "Miles Davis" || info.Album != "Kind of Blue" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Track != 1 {
		t.Fatalf("track = %d", info.Track)
	}
	want := map[string]string{
		"REPLAYGAIN_TRACK_PEAK": "0.500000",
		"REPLAYGAIN_TRACK_GAIN": "-3.21 dB",
		"REPLAYGAIN_ALBUM_GAIN": "-4.00 dB",
		"REPLAYGAIN_ALBUM_PEAK": "0.900000",
	}
	for k, v := range want {
		if info.ReplayGain[k] != v {
			t.Fatalf("%s = %q, want %q (all: %v)", k, info.ReplayGain[k], v, info.ReplayGain)
		}
	}
}

func TestID3WriterHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (ID3Writer{}).WriteTags(ctx, filepath.Join(t.TempDir(), "x.mp3"), Set{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
