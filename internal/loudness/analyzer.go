package loudness

import (
	"errors"
	"fmt"
	"math"
)

const (
	rmsWindowMillis = 50
	stepsPerDB      = 100
	maxDB           = 120
	histogramSize   = stepsPerDB * maxDB
	// pinkRef is the calibration level of the reference pink noise.
	pinkRef = 64.82
)

var (
	// ErrNotEnoughSamples reports that no complete analysis window was seen.
	ErrNotEnoughSamples = errors.New("not enough samples to compute gain")
	// ErrUnsupportedRate reports a sample rate with no filter.
	ErrUnsupportedRate = errors.New("unsupported sample rate")
	// ErrUnsupportedChannels reports a channel count other than one or two.
	ErrUnsupportedChannels = errors.New("unsupported channel count")
)

// Analyzer accumulates loudness statistics for a sequence of tracks. It is
// not safe for concurrent use.
type Analyzer struct {
	coeff  filterCoefficients
	window int

	lhist, rhist [maxOrder]float32
	lin, rin     []float32
	lstep, rstep []float32
	lout, rout   []float32

	lsum, rsum float64
	filled     int

	track [histogramSize]uint32
	album [histogramSize]uint32
}

// New returns an Analyzer for sampleRate. Rates above the filter table are
// decimated by powers of two until a filter matches.
func New(sampleRate int) (*Analyzer, error) {
	coeff, err := filterFor(sampleRate)
	if err != nil {
		return nil, err
	}
	window := (coeff.rate*rmsWindowMillis + 999) / 1000
	return &Analyzer{
		coeff:  coeff,
		window: window,
		lstep:  make([]float32, window+maxOrder),
		rstep:  make([]float32, window+maxOrder),
		lout:   make([]float32, window+maxOrder),
		rout:   make([]float32, window+maxOrder),
	}, nil
}

func filterFor(sampleRate int) (filterCoefficients, error) {
	rate := sampleRate
	downsample := 1
	maxRate := 0
	for _, f := range filters {
		maxRate = max(maxRate, f.rate)
	}
	for rate > 0 {
		for _, f := range filters {
			if f.rate == rate {
				f.downsample = downsample
				return f, nil
			}
		}
		if rate < maxRate {
			break
		}
		for rate > maxRate {
			downsample *= 2
			rate /= 2
		}
	}
	return filterCoefficients{}, fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, sampleRate)
}

// WindowSamples returns the number of (decimated) samples per analysis window.
func (a *Analyzer) WindowSamples() int {
	return a.window
}

// AnalyzeInterleaved feeds interleaved samples at 16-bit scale (full scale is
// ±32768).
func (a *Analyzer) AnalyzeInterleaved(samples []float32, channels int) error {
	switch channels {
	case 1:
		return a.Analyze(samples, nil)
	case 2:
		frames := len(samples) / 2
		left := make([]float32, frames)
		right := make([]float32, frames)
		for i := range frames {
			left[i] = samples[2*i]
			right[i] = samples[2*i+1]
		}
		return a.Analyze(left, right)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
}

// Analyze feeds one block of per-channel samples at 16-bit scale. A nil right
// channel analyzes left as mono.
func (a *Analyzer) Analyze(left, right []float32) error {
	if right == nil {
		right = left
	}
	if len(right) < len(left) {
		return fmt.Errorf("channel length mismatch: left %d right %d", len(left), len(right))
	}
	ds := a.coeff.downsample
	n := len(left) / ds
	if n == 0 {
		return nil
	}

	a.lin = decimate(a.lin[:0], a.lhist[:], left, ds, n)
	a.rin = decimate(a.rin[:0], a.rhist[:], right, ds, n)

	pos := 0
	for pos < n {
		cur := min(n-pos, a.window-a.filled)
		in := maxOrder + pos
		out := maxOrder + a.filled

		applyFilter(a.lin, in, a.lstep, out, cur, a.coeff.aYule[:], a.coeff.bYule[:], yuleOrder)
		applyFilter(a.rin, in, a.rstep, out, cur, a.coeff.aYule[:], a.coeff.bYule[:], yuleOrder)
		applyFilter(a.lstep, out, a.lout, out, cur, a.coeff.aButter[:], a.coeff.bButter[:], butterOrder)
		applyFilter(a.rstep, out, a.rout, out, cur, a.coeff.aButter[:], a.coeff.bButter[:], butterOrder)

		for i := out; i < out+cur; i++ {
			a.lsum += float64(a.lout[i]) * float64(a.lout[i])
			a.rsum += float64(a.rout[i]) * float64(a.rout[i])
		}

		pos += cur
		a.filled += cur
		if a.filled == a.window {
			a.closeWindow()
		}
	}

	copy(a.lhist[:], a.lin[len(a.lin)-maxOrder:])
	copy(a.rhist[:], a.rin[len(a.rin)-maxOrder:])
	return nil
}

func (a *Analyzer) closeWindow() {
	val := stepsPerDB * 10 * math.Log10((a.lsum+a.rsum)/float64(a.filled)*0.5+1e-37)
	bin := int(val)
	if bin < 0 {
		bin = 0
	}
	if bin >= histogramSize {
		bin = histogramSize - 1
	}
	a.track[bin]++
	a.lsum, a.rsum = 0, 0

	tail := a.filled
	copy(a.lout[:maxOrder], a.lout[tail:tail+maxOrder])
	copy(a.rout[:maxOrder], a.rout[tail:tail+maxOrder])
	copy(a.lstep[:maxOrder], a.lstep[tail:tail+maxOrder])
	copy(a.rstep[:maxOrder], a.rstep[tail:tail+maxOrder])
	a.filled = 0
}

// TrackGain returns the gain in dB for the samples analyzed since the last
// call, adds them to the album statistics, and resets per-track filter
// state.
func (a *Analyzer) TrackGain() (float64, error) {
	gain, err := gainFrom(a.track[:])
	for i, n := range a.track {
		a.album[i] += n
	}
	clear(a.track[:])
	a.ResetFilter()
	return gain, err
}

// AlbumGain returns the gain in dB for every track folded in by TrackGain.
func (a *Analyzer) AlbumGain() (float64, error) {
	return gainFrom(a.album[:])
}

// ResetFilter clears filter history and any partial window.
func (a *Analyzer) ResetFilter() {
	clear(a.lhist[:])
	clear(a.rhist[:])
	clear(a.lstep[:maxOrder])
	clear(a.rstep[:maxOrder])
	clear(a.lout[:maxOrder])
	clear(a.rout[:maxOrder])
	a.lsum, a.rsum = 0, 0
	a.filled = 0
}

func gainFrom(histogram []uint32) (float64, error) {
	var elems uint64
	for _, n := range histogram {
		elems += uint64(n)
	}
	if elems == 0 {
		return 0, ErrNotEnoughSamples
	}
	upper := int64((elems + 19) / 20)
	i := len(histogram) - 1
	for ; i > 0; i-- {
		upper -= int64(histogram[i])
		if upper <= 0 {
			break
		}
	}
	return pinkRef - float64(i)/stepsPerDB, nil
}

// decimate returns history followed by every ds-th sample of src.
func decimate(dst, history, src []float32, ds, n int) []float32 {
	dst = append(dst, history...)
	for i := range n {
		dst = append(dst, src[i*ds])
	}
	return dst
}

// applyFilter runs a direct-form IIR filter over n samples. Indices below the
// offsets hold the previous order inputs and outputs.
func applyFilter(in []float32, inOff int, out []float32, outOff, n int, a, b []float64, order int) {
	for i := range n {
		y := float64(in[inOff+i]) * b[0]
		for k := 1; k <= order; k++ {
			y += float64(in[inOff+i-k])*b[k] - float64(out[outOff+i-k])*a[k]
		}
		out[outOff+i] = float32(y)
	}
}
