package extraction

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"cddarip/internal/disc"
	"cddarip/internal/encoder"
	"cddarip/internal/handoff"
	"cddarip/internal/logging"
	"cddarip/internal/loudness"
	"cddarip/internal/tags"
)

// blockFrames is the number of frames converted and written per encoder call.
const blockFrames = 65536

var pcmFormat = encoder.Format{SampleRate: disc.SampleRate, Channels: disc.Channels}

// File is one audio file written by a job.
type File struct {
	Path   string
	Tracks []int
	Frames int64
	// Peak is the largest absolute sample, 1.0 being full scale.
	Peak float64
	// Gain is the ReplayGain adjustment in dB, nil when the audio was shorter
	// than one analysis window.
	Gain *float64
}

// pipeline is the encode worker's state. Only the encode goroutine touches it.
type pipeline struct {
	job       Job
	dir       string
	template  string
	enc       encoder.Encoder
	tagWriter tags.Writer
	analyzer  *loudness.Analyzer
	logger    *slog.Logger
	state     func(EncodeState)
	progress  func(fraction float64)

	stream   encoder.Stream
	path     string
	written  int64
	expected int64
	peak     float64
	// encoded and total count frames across the whole job for progress.
	encoded int64
	total   int64
	joined   []disc.Track

	samples     []float32
	left, right []float32

	files     []File
	tagErrors []error
	albumPeak float64
	albumGain *float64
}

func newPipeline(job Job, dir, template string, enc encoder.Encoder, tagWriter tags.Writer, logger *slog.Logger) (*pipeline, error) {
	analyzer, err := loudness.New(pcmFormat.SampleRate)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, t := range job.Tracks {
		total += int64(t.Frames())
	}
	return &pipeline{
		job:       job,
		total:     total,
		dir:       dir,
		template:  template,
		enc:       enc,
		tagWriter: tagWriter,
		analyzer:  analyzer,
		logger:    logger,
		state:     func(EncodeState) {},
		progress:  func(float64) {},
		samples:   make([]float32, blockFrames*pcmFormat.Channels),
		left:      make([]float32, blockFrames),
		right:     make([]float32, blockFrames),
	}, nil
}

// encode streams one track. last marks the final track of the job.
func (p *pipeline) encode(ctx context.Context, item handoff.Item, last bool) error {
	track := item.Track
	stage := fmt.Sprintf("track %d", track.Number)
	if p.stream == nil {
		if err := p.open(ctx, track); err != nil {
			return err
		}
	}

	p.state(EncodeStreaming)
	p.expected += int64(track.Frames())
	if err := p.streamPCM(ctx, item.PCM); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return Wrap(ErrEncoderWrite, "encoding", stage, p.path, err)
	}
	if err := p.verify(); err != nil {
		return Wrap(ErrEncodeMismatch, "encoding", stage, p.path, err)
	}

	if p.job.Join {
		p.joined = append(p.joined, track)
		if !last {
			p.state(EncodeNextTrack)
			return nil
		}
		return p.finishJoin(ctx)
	}

	if err := p.finishTrack(ctx, track); err != nil {
		return err
	}
	if last {
		return p.writeAlbumTags(ctx)
	}
	p.state(EncodeNextTrack)
	return nil
}

func (p *pipeline) open(ctx context.Context, track disc.Track) error {
	p.state(EncodeOpening)
	if p.job.Join {
		p.path = joinPath(p.dir, p.job.JoinName, p.job.Tracks, p.enc.Extension())
	} else {
		p.path = trackPath(p.dir, p.template, track, p.enc.Extension())
	}
	stage := fmt.Sprintf("track %d", track.Number)
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return Wrap(ErrEncoderOpen, "encoding", stage, "create output directory", err)
	}
	stream, err := p.enc.Open(ctx, p.path, pcmFormat)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return Wrap(ErrEncoderOpen, "encoding", stage, p.path, err)
	}
	p.stream = stream
	p.written = 0
	p.expected = 0
	p.peak = 0
	return nil
}

// streamPCM converts little-endian 16-bit frames to floats, feeds the
// analyzer at 16-bit scale, and writes blocks to the encoder.
func (p *pipeline) streamPCM(ctx context.Context, pcm []byte) error {
	total := len(pcm) / disc.BytesPerFrame
	for done := 0; done < total; {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(blockFrames, total-done)
		block := pcm[done*disc.BytesPerFrame : (done+n)*disc.BytesPerFrame]
		samples := p.samples[:n*pcmFormat.Channels]
		left, right := p.left[:n], p.right[:n]
		peak := p.peak
		for i := range n {
			l := int16(binary.LittleEndian.Uint16(block[4*i:]))
			r := int16(binary.LittleEndian.Uint16(block[4*i+2:]))
			left[i], right[i] = float32(l), float32(r)
			samples[2*i] = float32(l) / 32768
			samples[2*i+1] = float32(r) / 32768
			peak = max(peak, math.Abs(float64(samples[2*i])), math.Abs(float64(samples[2*i+1])))
		}
		if err := p.stream.Write(samples, n); err != nil {
			return err
		}
		// Peak and loudness only account for frames the encoder accepted.
		p.peak = peak
		if err := p.analyzer.Analyze(left, right); err != nil {
			return err
		}
		p.written += int64(n)
		p.encoded += int64(n)
		done += n
		if p.total > 0 {
			p.progress(min(float64(p.encoded)/float64(p.total), 1))
		}
	}
	return nil
}

// verify checks that the encoder accepted exactly the frames handed to it.
func (p *pipeline) verify() error {
	got := p.written
	if counter, ok := p.stream.(encoder.FrameCounter); ok {
		got = counter.FramesWritten()
	}
	if got != p.expected {
		return fmt.Errorf("encoded %d frames, expected %d", got, p.expected)
	}
	return nil
}

func (p *pipeline) close(stage string) error {
	p.state(EncodeClosing)
	stream := p.stream
	p.stream = nil
	if err := stream.Close(); err != nil {
		return Wrap(ErrEncoderWrite, "encoding", stage, "close "+p.path, err)
	}
	return nil
}

func (p *pipeline) finishTrack(ctx context.Context, track disc.Track) error {
	if err := p.close(fmt.Sprintf("track %d", track.Number)); err != nil {
		return err
	}
	file := File{Path: p.path, Tracks: []int{track.Number}, Frames: p.written, Peak: p.peak}
	set := tags.FromMetadata(track.Metadata, track.Number)
	set[tags.TrackPeak] = tags.FormatPeak(p.peak)
	if gain, err := p.analyzer.TrackGain(); err == nil {
		file.Gain = &gain
		set[tags.TrackGain] = tags.FormatGain(gain)
	} else {
		p.logger.Debug("track gain unavailable", logging.Int(logging.FieldTrack, track.Number), logging.Error(err))
	}
	p.albumPeak = max(p.albumPeak, p.peak)
	p.files = append(p.files, file)
	p.logger.Info("track encoded",
		logging.Int(logging.FieldTrack, track.Number),
		logging.String("path", file.Path),
		logging.Int64("frames", file.Frames),
		logging.Float64("peak", file.Peak),
		logging.String(logging.FieldEventType, "track_encoded"),
	)
	return p.writeTags(ctx, file.Path, set)
}

func (p *pipeline) finishJoin(ctx context.Context) error {
	if err := p.close("join"); err != nil {
		return err
	}
	numbers := make([]int, len(p.joined))
	metas := make([]disc.Metadata, len(p.joined))
	for i, t := range p.joined {
		numbers[i] = t.Number
		metas[i] = t.Metadata
	}
	file := File{Path: p.path, Tracks: numbers, Frames: p.written, Peak: p.peak}
	set := tags.Common(metas)
	set[tags.TrackPeak] = tags.FormatPeak(p.peak)
	if gain, err := p.analyzer.TrackGain(); err == nil {
		file.Gain = &gain
		set[tags.TrackGain] = tags.FormatGain(gain)
	}
	p.files = append(p.files, file)
	p.albumPeak = p.peak
	p.albumGain = file.Gain
	p.logger.Info("joined file encoded",
		logging.String("path", file.Path),
		logging.Int("tracks", len(numbers)),
		logging.Int64("frames", file.Frames),
		logging.Float64("peak", file.Peak),
		logging.String(logging.FieldEventType, "join_encoded"),
	)
	return p.writeTags(ctx, file.Path, set)
}

// writeAlbumTags applies album peak and gain to every file of the job.
func (p *pipeline) writeAlbumTags(ctx context.Context) error {
	set := tags.Set{tags.AlbumPeak: tags.FormatPeak(p.albumPeak)}
	if gain, err := p.analyzer.AlbumGain(); err == nil {
		p.albumGain = &gain
		set[tags.AlbumGain] = tags.FormatGain(gain)
	}
	for _, f := range p.files {
		if err := p.writeTags(ctx, f.Path, set); err != nil {
			return err
		}
	}
	return nil
}

// writeTags hands set to the tag writer. Writer failures are collected and
// never undo the audio; cancellation stops further writes.
func (p *pipeline) writeTags(ctx context.Context, path string, set tags.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.tagWriter == nil {
		return nil
	}
	if err := p.tagWriter.WriteTags(ctx, path, set); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return ctx.Err()
		}
		err = fmt.Errorf("tag %s: %w", path, err)
		p.tagErrors = append(p.tagErrors, err)
		logging.WarnWithContext(p.logger, "writing tags failed", "tag_write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "audio kept without tags"),
			logging.String(logging.FieldErrorHint, "check the file is writable"),
		)
	}
	return nil
}

// abort releases the encoder handle and removes the partial file.
func (p *pipeline) abort() {
	if p.stream == nil {
		return
	}
	stream := p.stream
	p.stream = nil
	_ = stream.Close()
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Debug("removing partial output failed", logging.String("path", p.path), logging.Error(err))
	}
}
