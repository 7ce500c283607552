package extraction

import (
	"path/filepath"
	"testing"

	"cddarip/internal/disc"
)

func TestExpandTemplate(t *testing.T) {
	meta := disc.Metadata{Artist: "AC/DC", Album: "Back In Black", Title: "Hells Bells?"}
	tests := []struct {
		name     string
		template string
		meta     disc.Metadata
		number   int
		want     string
	}{
		{"default layout", "%a/%d/%n %t", meta, 1, "AC-DC/Back In Black/01 Hells Bells"},
		{"upper case codes", "%A - %T", meta, 3, "AC-DC - Hells Bells"},
		{"literal percent", "100%% %n", meta, 12, "100% 12"},
		{"unknown code kept", "%x %n", meta, 2, "%x 02"},
		{"missing artist drops directory", "%a/%d/%n", disc.Metadata{Album: "LP"}, 4, "LP/04"},
		{"trailing percent", "%n%", meta, 5, "05%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := expandTemplate(tc.template, tc.meta, tc.number); got != tc.want {
				t.Fatalf("expandTemplate(%q) = %q, want %q", tc.template, got, tc.want)
			}
		})
	}
}

func TestTrackPathFallsBackToNumber(t *testing.T) {
	track := disc.Track{Number: 7}
	got := trackPath("/out", "%a/%t", track, "flac")
	if want := filepath.Join("/out", "07.flac"); got != want {
		t.Fatalf("trackPath = %q, want %q", got, want)
	}
}

func TestJoinPath(t *testing.T) {
	tracks := []disc.Track{
		{Number: 1, Metadata: disc.Metadata{Artist: "Band", Album: "LP", Title: "One"}},
		{Number: 2, Metadata: disc.Metadata{Artist: "Band", Album: "LP", Title: "Two"}},
	}
	if got, want := joinPath("/out", "", tracks, "wav"), filepath.Join("/out", "Band - LP.wav"); got != want {
		t.Fatalf("default join name = %q, want %q", got, want)
	}
	if got, want := joinPath("/out", "side a", tracks, "wav"), filepath.Join("/out", "side a.wav"); got != want {
		t.Fatalf("explicit join name = %q, want %q", got, want)
	}
	bare := []disc.Track{{Number: 3}, {Number: 5}}
	if got, want := joinPath("/out", "", bare, "wav"), filepath.Join("/out", "03-05.wav"); got != want {
		t.Fatalf("fallback join name = %q, want %q", got, want)
	}
}

func TestCommonMetadata(t *testing.T) {
	tracks := []disc.Track{
		{Metadata: disc.Metadata{Artist: "Band", Album: "LP", Title: "One", Year: 1999}},
		{Metadata: disc.Metadata{Artist: "Band", Album: "LP", Title: "Two", Year: 2000}},
	}
	got := commonMetadata(tracks)
	if got.Artist != "Band" || got.Album != "LP" || got.Title != "" || got.Year != 0 {
		t.Fatalf("unexpected common metadata %+v", got)
	}
}
