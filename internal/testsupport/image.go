package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cddarip/internal/disc"
)

// WriteImage writes a CUE sheet and a single BIN file holding one audio
// track per entry of counts (in sectors). Sector content follows
// StableSector. Tracks are titled "Song N" by "Artist" on "Album".
func WriteImage(t testing.TB, dir string, counts ...int) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir image dir: %v", err)
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	data := make([]byte, 0, total*disc.SectorSize)
	for i := range total {
		data = append(data, StableSector(i)...)
	}
	if err := os.WriteFile(filepath.Join(dir, "disc.bin"), data, 0o644); err != nil {
		t.Fatalf("write bin: %v", err)
	}

	var b strings.Builder
	b.WriteString("PERFORMER \"Artist\"\nTITLE \"Album\"\nFILE \"disc.bin\" BINARY\n")
	start := 0
	for i, c := range counts {
		fmt.Fprintf(&b, "  TRACK %02d AUDIO\n    TITLE \"Song %d\"\n    INDEX 01 %s\n", i+1, i+1, msf(start))
		start += c
	}
	path := filepath.Join(dir, "disc.cue")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write cue: %v", err)
	}
	return path
}

func msf(sector int) string {
	frames := sector % disc.SectorsPerSecond
	seconds := sector / disc.SectorsPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", seconds/60, seconds%60, frames)
}
