package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"cddarip/internal/disc"
)

func TestParseTrackList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "3", want: []int{3}},
		{in: "1,3,5-7", want: []int{1, 3, 5, 6, 7}},
		{in: " 2 , 4-4 ,", want: []int{2, 4}},
		{in: "0", wantErr: true},
		{in: "a", wantErr: true},
		{in: "5-3", wantErr: true},
		{in: "2-x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseTrackList(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseTrackList(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Fatalf("parseTrackList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMetadataOverrides(t *testing.T) {
	art := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(art, []byte{0xff, 0xd8, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	tracks := []disc.Track{
		{Number: 1, Metadata: disc.Metadata{Title: "One", Artist: "Old"}},
		{Number: 2, Metadata: disc.Metadata{Title: "Two", Artist: "Old"}},
	}
	overrides := metadataOverrides{
		artist:  "New",
		year:    1999,
		titles:  []string{"2=Second"},
		artwork: art,
	}
	if err := overrides.apply(tracks); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if tracks[0].Metadata.Artist != "New" || tracks[1].Metadata.Artist != "New" {
		t.Fatalf("artist not applied: %+v", tracks)
	}
	if tracks[0].Metadata.Title != "One" || tracks[1].Metadata.Title != "Second" {
		t.Fatalf("titles: %q %q", tracks[0].Metadata.Title, tracks[1].Metadata.Title)
	}
	if tracks[1].Metadata.Year != 1999 || len(tracks[1].Metadata.Artwork) != 3 {
		t.Fatalf("year or artwork not applied: %+v", tracks[1].Metadata)
	}

	if err := (metadataOverrides{titles: []string{"Second"}}).apply(tracks); err == nil {
		t.Fatal("expected error for malformed title")
	}
	if err := (metadataOverrides{artwork: filepath.Join(t.TempDir(), "missing.png")}).apply(tracks); err == nil {
		t.Fatal("expected error for missing artwork")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(75*61 + 3); got != "01:01.03" {
		t.Fatalf("formatDuration = %q", got)
	}
}
