package main

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"cddarip/internal/extraction"
	"cddarip/internal/logging"
)

const (
	progressInterval = 200 * time.Millisecond
	barScale         = 1000
)

type progressSource interface {
	Snapshot() extraction.Progress
}

// barLabel is read by the mpb render goroutine while the poll loop writes it.
type barLabel struct {
	mu   sync.Mutex
	text string
}

func (l *barLabel) set(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

func (l *barLabel) decorator() decor.Decorator {
	return decor.Any(func(decor.Statistics) string {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.text
	})
}

// showProgressBars renders read and encode bars until the job ends.
func showProgressBars(out io.Writer, src progressSource, done <-chan extraction.Result) extraction.Result {
	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(48), mpb.WithRefreshRate(progressInterval))
	readLabel, encodeLabel := &barLabel{text: "waiting"}, &barLabel{text: "waiting"}
	readBar := p.AddBar(barScale,
		mpb.PrependDecorators(decor.Name("read   "), readLabel.decorator()),
		mpb.AppendDecorators(decor.Percentage()),
	)
	encodeBar := p.AddBar(barScale,
		mpb.PrependDecorators(decor.Name("encode "), encodeLabel.decorator()),
		mpb.AppendDecorators(decor.Percentage()),
	)

	update := func(s extraction.Progress) {
		readLabel.set(fmt.Sprintf("%d/%d %s", s.ReadTrack, s.Tracks, s.Label()))
		readBar.SetCurrent(int64(s.ReadFraction * barScale))
		encodeLabel.set(fmt.Sprintf("%d/%d %s", s.EncodeTrack, s.Tracks, s.EncodeState))
		encodeBar.SetCurrent(int64(s.EncodeFraction * barScale))
	}

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case res := <-done:
			update(src.Snapshot())
			if res.OK() {
				readBar.SetTotal(-1, true)
				encodeBar.SetTotal(-1, true)
			} else {
				readBar.Abort(false)
				encodeBar.Abort(false)
			}
			p.Wait()
			return res
		case <-ticker.C:
			update(src.Snapshot())
		}
	}
}

// logProgress emits sampled progress log lines until the job ends.
func logProgress(logger *slog.Logger, src progressSource, done <-chan extraction.Result) extraction.Result {
	if logger == nil {
		logger = logging.NewNop()
	}
	readSampler := logging.NewProgressSampler(10)
	encodeSampler := logging.NewProgressSampler(10)
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case res := <-done:
			return res
		case <-ticker.C:
			s := src.Snapshot()
			readStage := fmt.Sprintf("reading %d/%d %s", s.ReadTrack, s.Tracks, s.Label())
			if readSampler.ShouldLog(s.ReadFraction*100, readStage) {
				logger.Info("extraction progress",
					logging.String("stage", readStage),
					logging.Float64("percent", s.ReadFraction*100),
					logging.String(logging.FieldEventType, "read_progress"),
				)
			}
			encodeStage := fmt.Sprintf("encoding %d/%d %s", s.EncodeTrack, s.Tracks, s.EncodeState)
			if encodeSampler.ShouldLog(s.EncodeFraction*100, encodeStage) {
				logger.Info("extraction progress",
					logging.String("stage", encodeStage),
					logging.Float64("percent", s.EncodeFraction*100),
					logging.String(logging.FieldEventType, "encode_progress"),
				)
			}
		}
	}
}
