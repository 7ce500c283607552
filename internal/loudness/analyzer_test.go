package loudness

import (
	"errors"
	"math"
	"testing"
)

func sine(rate, frames int, freq, amplitude float64) []float32 {
	out := make([]float32, frames)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestFilterSelection(t *testing.T) {
	tests := []struct {
		rate       int
		wantRate   int
		downsample int
		wantErr    bool
	}{
		{rate: 44100, wantRate: 44100, downsample: 1},
		{rate: 48000, wantRate: 48000, downsample: 1},
		{rate: 8000, wantRate: 8000, downsample: 1},
		{rate: 88200, wantRate: 44100, downsample: 2},
		{rate: 96000, wantRate: 48000, downsample: 2},
		{rate: 192000, wantRate: 48000, downsample: 4},
		{rate: 17000, wantErr: true},
		{rate: 100000, wantErr: true},
		{rate: 0, wantErr: true},
	}
	for _, tt := range tests {
		f, err := filterFor(tt.rate)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedRate) {
				t.Fatalf("rate %d: expected ErrUnsupportedRate, got %v", tt.rate, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("rate %d: %v", tt.rate, err)
		}
		if f.rate != tt.wantRate || f.downsample != tt.downsample {
			t.Fatalf("rate %d: got %d/%d want %d/%d", tt.rate, f.rate, f.downsample, tt.wantRate, tt.downsample)
		}
	}
	if len(filters) != 13 {
		t.Fatalf("expected 13 filters, got %d", len(filters))
	}
}

func TestWindowSize(t *testing.T) {
	a, err := New(44100)
	if err != nil {
		t.Fatal(err)
	}
	if a.WindowSamples() != 2205 {
		t.Fatalf("window = %d, want 2205", a.WindowSamples())
	}
}

func TestSilenceYieldsReferenceGain(t *testing.T) {
	a, _ := New(44100)
	if err := a.Analyze(make([]float32, 44100), nil); err != nil {
		t.Fatal(err)
	}
	gain, err := a.TrackGain()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(gain-pinkRef) > 1e-9 {
		t.Fatalf("gain = %v, want %v", gain, pinkRef)
	}
}

func TestNotEnoughSamples(t *testing.T) {
	a, _ := New(44100)
	if _, err := a.TrackGain(); !errors.Is(err, ErrNotEnoughSamples) {
		t.Fatalf("expected ErrNotEnoughSamples, got %v", err)
	}
	a.Analyze(make([]float32, 100), nil) //nolint:errcheck
	if _, err := a.TrackGain(); !errors.Is(err, ErrNotEnoughSamples) {
		t.Fatalf("partial window must not count, got %v", err)
	}
	if _, err := a.AlbumGain(); !errors.Is(err, ErrNotEnoughSamples) {
		t.Fatalf("expected empty album, got %v", err)
	}
}

func TestDoublingAmplitudeLowersGainBySixDB(t *testing.T) {
	gainFor := func(amplitude float64) float64 {
		a, _ := New(44100)
		s := sine(44100, 2*44100, 1000, amplitude)
		if err := a.Analyze(s, s); err != nil {
			t.Fatal(err)
		}
		g, err := a.TrackGain()
		if err != nil {
			t.Fatal(err)
		}
		return g
	}
	quiet := gainFor(2000)
	loud := gainFor(4000)
	diff := quiet - loud
	if math.Abs(diff-20*math.Log10(2)) > 0.05 {
		t.Fatalf("gain difference %v, want about 6.02", diff)
	}
}

func TestChunkingDoesNotChangeResult(t *testing.T) {
	s := sine(44100, 44100, 440, 8000)
	whole, _ := New(44100)
	whole.Analyze(s, s) //nolint:errcheck
	want, _ := whole.TrackGain()

	chunked, _ := New(44100)
	for start := 0; start < len(s); start += 777 {
		end := min(start+777, len(s))
		chunked.Analyze(s[start:end], s[start:end]) //nolint:errcheck
	}
	got, _ := chunked.TrackGain()
	if math.Abs(got-want) > 0.011 {
		t.Fatalf("chunked gain %v, whole gain %v", got, want)
	}
}

func TestMonoMatchesIdenticalStereo(t *testing.T) {
	s := sine(48000, 48000, 300, 5000)
	mono, _ := New(48000)
	mono.Analyze(s, nil) //nolint:errcheck
	stereo, _ := New(48000)
	stereo.Analyze(s, s) //nolint:errcheck

	g1, _ := mono.TrackGain()
	g2, _ := stereo.TrackGain()
	if g1 != g2 {
		t.Fatalf("mono %v stereo %v", g1, g2)
	}
}

func TestAnalyzeInterleaved(t *testing.T) {
	s := sine(44100, 44100, 1000, 3000)
	inter := make([]float32, 2*len(s))
	for i, v := range s {
		inter[2*i] = v
		inter[2*i+1] = v
	}
	a, _ := New(44100)
	if err := a.AnalyzeInterleaved(inter, 2); err != nil {
		t.Fatal(err)
	}
	b, _ := New(44100)
	b.Analyze(s, s) //nolint:errcheck
	ga, _ := a.TrackGain()
	gb, _ := b.TrackGain()
	if ga != gb {
		t.Fatalf("interleaved %v planar %v", ga, gb)
	}
	if err := a.AnalyzeInterleaved(inter, 3); !errors.Is(err, ErrUnsupportedChannels) {
		t.Fatalf("expected ErrUnsupportedChannels, got %v", err)
	}
}

func TestAlbumGainAccumulatesTracks(t *testing.T) {
	a, _ := New(44100)
	loud := sine(44100, 2*44100, 1000, 6000)
	a.Analyze(loud, loud) //nolint:errcheck
	trackLoud, _ := a.TrackGain()

	a.Analyze(make([]float32, 44100), nil) //nolint:errcheck
	trackSilent, _ := a.TrackGain()

	album, err := a.AlbumGain()
	if err != nil {
		t.Fatal(err)
	}
	if trackSilent != pinkRef {
		t.Fatalf("silent track gain %v", trackSilent)
	}
	// The loudest five percent of windows all come from the loud track.
	if math.Abs(album-trackLoud) > 0.011 {
		t.Fatalf("album %v, loud track %v", album, trackLoud)
	}
	again, _ := a.AlbumGain()
	if again != album {
		t.Fatal("AlbumGain must not reset album statistics")
	}
}

func TestGainFromPercentile(t *testing.T) {
	h := make([]uint32, histogramSize)
	h[1000] = 95
	h[2000] = 5
	g, err := gainFrom(h)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g-(pinkRef-20)) > 1e-9 {
		t.Fatalf("gain = %v, want %v", g, pinkRef-20)
	}
	h[2000] = 4
	g, _ = gainFrom(h)
	if math.Abs(g-(pinkRef-10)) > 1e-9 {
		t.Fatalf("gain = %v, want %v", g, pinkRef-10)
	}
}
