package disc

import (
	"strings"
	"testing"
)

const sampleCue = `REM GENRE Jazz
REM DATE 1959
PERFORMER "Miles Davis"
TITLE "Kind of Blue"
FILE "disc.bin" BINARY
  TRACK 01 AUDIO
    TITLE "So What"
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    TITLE "Freddie Freeloader"
    PERFORMER "Miles Davis Sextet"
    INDEX 00 00:01:00
    INDEX 01 00:02:00
  TRACK 03 MODE1/2352
    INDEX 01 00:04:00
`

func TestParseCue(t *testing.T) {
	sheet, err := ParseCue(strings.NewReader(sampleCue))
	if err != nil {
		t.Fatalf("ParseCue: %v", err)
	}
	if sheet.Title != "Kind of Blue" || sheet.Performer != "Miles Davis" {
		t.Fatalf("unexpected album fields: %+v", sheet)
	}
	if sheet.Genre != "Jazz" || sheet.Date != "1959" {
		t.Fatalf("unexpected rem fields: %+v", sheet)
	}
	if len(sheet.Files) != 1 || sheet.Files[0].Name != "disc.bin" || sheet.Files[0].Type != "BINARY" {
		t.Fatalf("unexpected files: %+v", sheet.Files)
	}
	tracks := sheet.Files[0].Tracks
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(tracks))
	}
	if tracks[1].Index01 != 150 {
		t.Fatalf("track 2 index01 = %d, want 150", tracks[1].Index01)
	}
	if tracks[1].Performer != "Miles Davis Sextet" || tracks[1].Title != "Freddie Freeloader" {
		t.Fatalf("unexpected track 2: %+v", tracks[1])
	}
	if tracks[2].IsAudio() {
		t.Fatal("expected data track")
	}
}

func TestParseCueSkipsByteOrderMark(t *testing.T) {
	sheet, err := ParseCue(strings.NewReader("\ufeff" + sampleCue))
	if err != nil {
		t.Fatalf("ParseCue: %v", err)
	}
	if sheet.Genre != "Jazz" {
		t.Fatalf("first line not parsed after BOM: %+v", sheet)
	}
}

func TestParseCueErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"track before file", "TRACK 01 AUDIO\n"},
		{"missing index", "FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\n"},
		{"bad msf", "FILE \"a.bin\" BINARY\nTRACK 01 AUDIO\nINDEX 01 00:61:00\n"},
		{"bad number", "FILE \"a.bin\" BINARY\nTRACK xx AUDIO\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCue(strings.NewReader(tt.input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseMSF(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"00:02:00", 150},
		{"01:00:74", 4574},
	}
	for _, tt := range tests {
		got, err := ParseMSF(tt.in)
		if err != nil {
			t.Fatalf("ParseMSF(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseMSF(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if _, err := ParseMSF("00:00:75"); err == nil {
		t.Fatal("expected frame overflow error")
	}
}
