package consensus_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cddarip/internal/consensus"
	"cddarip/internal/disc"
	"cddarip/internal/testsupport"
)

func readTrack(t *testing.T, medium *testsupport.ScriptedMedium, opts consensus.Options) ([]disc.Sector, consensus.Stats, error) {
	t.Helper()
	reader, err := medium.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reader.Close()
	return consensus.Read(context.Background(), reader, medium.TrackList[0], opts)
}

func TestReadStableTrackResolvesOnSecondPass(t *testing.T) {
	medium := testsupport.NewScriptedMedium(10)
	a := testsupport.ConstantSector(1000)
	medium.Script(3, a, a)

	sectors, stats, err := readTrack(t, medium, consensus.Options{BatchSectors: 4})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sectors) != 10 {
		t.Fatalf("expected 10 sectors, got %d", len(sectors))
	}
	if !bytes.Equal(sectors[3], a) {
		t.Fatal("sector 3 should carry the confirmed value")
	}
	if stats.Passes != 2 {
		t.Fatalf("expected 2 passes, got %d", stats.Passes)
	}
	if stats.ResolvedPerPass[0] != 0 || stats.ResolvedPerPass[1] != 10 {
		t.Fatalf("unexpected resolution profile %v", stats.ResolvedPerPass)
	}
	if stats.Reconstructed != 0 {
		t.Fatalf("expected no reconstruction, got %d", stats.Reconstructed)
	}
	var total int
	for _, s := range sectors {
		total += len(s)
	}
	if total != 10*disc.SectorSize {
		t.Fatalf("assembled length %d", total)
	}
}

func TestReadConvergesOnFirstRepeatedValue(t *testing.T) {
	medium := testsupport.NewScriptedMedium(4)
	a := testsupport.ConstantSector(1)
	b := testsupport.ConstantSector(2)
	c := testsupport.ConstantSector(3)
	medium.Script(2, a, b, c, b, a)

	sectors, stats, err := readTrack(t, medium, consensus.Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(sectors[2], b) {
		t.Fatalf("expected first repeated value B, got sample %d", sectors[2].Sample(0))
	}
	if stats.Passes != 4 {
		t.Fatalf("expected 4 passes, got %d", stats.Passes)
	}
	if medium.Reads(2) != 4 {
		t.Fatalf("expected sector 2 read 4 times, got %d", medium.Reads(2))
	}
}

func TestReadModalReconstructionAfterExhaustion(t *testing.T) {
	medium := testsupport.NewScriptedMedium(8)
	// Five distinct reads of sector 7. Offset 0 carries values
	// {10, 20, 10, 30, 20}; offset 1 carries {5, 5, 6, 6, 7}.
	build := func(read int, s0, s1 int16) disc.Sector {
		return testsupport.PatternSector(func(offset int) int16 {
			switch offset {
			case 0:
				return s0
			case 1:
				return s1
			default:
				return int16(read*100 + offset%50)
			}
		})
	}
	reads := []disc.Sector{
		build(0, 10, 5),
		build(1, 20, 5),
		build(2, 10, 6),
		build(3, 30, 6),
		build(4, 20, 7),
	}
	medium.Script(7, reads...)

	sectors, stats, err := readTrack(t, medium, consensus.Options{MaxPasses: 5})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if stats.Passes != 5 || stats.Reconstructed != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	got := sectors[7]
	// Tie between 10 and 20 (two each) resolves to the smaller value.
	if got.Sample(0) != 10 {
		t.Fatalf("offset 0 = %d, want 10", got.Sample(0))
	}
	// Tie between 5 and 6 resolves to 5.
	if got.Sample(1) != 5 {
		t.Fatalf("offset 1 = %d, want 5", got.Sample(1))
	}
	if len(got) != disc.SectorSize {
		t.Fatalf("reconstructed sector size %d", len(got))
	}
}

func TestModalTieBreakPrefersSmallestValue(t *testing.T) {
	values := []disc.Sector{
		testsupport.ConstantSector(300),
		testsupport.ConstantSector(-4),
		testsupport.ConstantSector(300),
		testsupport.ConstantSector(-4),
		testsupport.ConstantSector(9),
	}
	got := consensus.Modal(values)
	if got.Sample(0) != -4 || got.Sample(disc.SamplesPerSector-1) != -4 {
		t.Fatalf("tie should resolve to smallest sample, got %d", got.Sample(0))
	}

	values = append(values, testsupport.ConstantSector(300))
	if got := consensus.Modal(values); got.Sample(0) != 300 {
		t.Fatalf("strict majority should win, got %d", got.Sample(0))
	}
}

func TestReadUnreadableSectorFailsTrack(t *testing.T) {
	medium := testsupport.NewScriptedMedium(6)
	medium.SetUnreadable(4)

	sectors, _, err := readTrack(t, medium, consensus.Options{MaxPasses: 3, BatchSectors: 2})
	if !errors.Is(err, consensus.ErrUnrecoverable) {
		t.Fatalf("expected ErrUnrecoverable, got %v", err)
	}
	if sectors != nil {
		t.Fatal("expected no partial output")
	}
}

func TestReadHonoursCancellation(t *testing.T) {
	medium := testsupport.NewScriptedMedium(50)
	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	medium.OnRead = func(int) {
		seen++
		if seen == 5 {
			cancel()
		}
	}
	reader, err := medium.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reader.Close()

	_, _, err = consensus.Read(ctx, reader, medium.TrackList[0], consensus.Options{BatchSectors: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if seen != 5 {
		t.Fatalf("expected reads to stop at the cancellation point, saw %d", seen)
	}
}

func TestReadReportsProgress(t *testing.T) {
	medium := testsupport.NewScriptedMedium(4)
	medium.Script(1, testsupport.ConstantSector(1), testsupport.ConstantSector(2))

	var phases []consensus.Phase
	var last float64
	opts := consensus.Options{
		MaxPasses: 2,
		Progress: func(pass int, phase consensus.Phase, fraction float64) {
			if len(phases) == 0 || phases[len(phases)-1] != phase {
				phases = append(phases, phase)
			}
			last = fraction
		},
	}
	if _, _, err := readTrack(t, medium, opts); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(phases) != 2 || phases[1] != consensus.PhaseFixing {
		t.Fatalf("expected reading then fixing phases, got %v", phases)
	}
	if last != 1 {
		t.Fatalf("expected final fraction 1, got %v", last)
	}
}
