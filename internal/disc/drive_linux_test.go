//go:build linux

package disc

import "testing"

func TestTracksFromTOCSkipsDataAndSessionGap(t *testing.T) {
	entries := []tocEntry{
		{Track: 1, AdrCtrl: 0x01, Addr: 0},
		{Track: 2, AdrCtrl: 0x01, Addr: 1000},
		{Track: 3, AdrCtrl: 0x41, Addr: 20000},
		{Track: leadoutTrack, AdrCtrl: 0x41, Addr: 30000},
	}
	tracks := tracksFromTOC(entries)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 audio tracks, got %+v", tracks)
	}
	if tracks[0].Count != 1000 {
		t.Fatalf("track 1 count = %d", tracks[0].Count)
	}
	if tracks[1].Count != 20000-multiSessionGap-1000 {
		t.Fatalf("track 2 count = %d", tracks[1].Count)
	}
}
