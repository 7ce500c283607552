package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"cddarip/internal/consensus"
	"cddarip/internal/disc"
	"cddarip/internal/handoff"
	"cddarip/internal/logging"
)

// assemble concatenates validated sectors into one PCM buffer.
func assemble(sectors []disc.Sector) []byte {
	pcm := make([]byte, 0, len(sectors)*disc.SectorSize)
	for _, s := range sectors {
		pcm = append(pcm, s...)
	}
	return pcm
}

// runReader reads every requested track through the consensus reader and
// publishes the assembled buffers in request order.
func (c *Coordinator) runReader(ctx context.Context, r *run) {
	defer c.wg.Done()
	defer func() {
		if err := r.reader.Close(); err != nil {
			c.logger.Warn("closing medium failed", logging.Error(err))
		}
	}()

	ctx = logging.WithWorker(ctx, "read")
	opts := consensus.Options{
		MaxPasses:    c.cfg.Drive.MaxPasses,
		BatchSectors: c.cfg.Drive.ReadBatchSectors,
	}

	for i, track := range r.job.Tracks {
		if ctx.Err() != nil {
			return
		}
		trackCtx := logging.WithTrack(ctx, track.Number)
		logger := logging.WithContext(trackCtx, c.logger)
		c.updateProgress(func(p *Progress) {
			p.ReadTrack = i + 1
			p.ReadNumber = track.Number
			p.ReadPhase = ReadPass
			p.Pass = 1
			p.ReadFraction = 0
		})

		opts.Progress = func(pass int, phase consensus.Phase, fraction float64) {
			c.updateProgress(func(p *Progress) {
				p.Pass = pass
				p.ReadFraction = fraction
				if phase == consensus.PhaseFixing {
					p.ReadPhase = ReadFixing
				} else {
					p.ReadPhase = ReadPass
				}
			})
		}

		sectors, stats, err := consensus.Read(trackCtx, r.reader, track, opts)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.fail(r, Wrap(ErrSectorRead, "reading", fmt.Sprintf("track %d", track.Number), "", err))
			return
		}
		logRead(logger, track, stats)

		r.mu.Lock()
		r.stats = append(r.stats, TrackStats{Track: track.Number, Stats: stats})
		r.mu.Unlock()

		item := handoff.Item{Key: i, Track: track, PCM: assemble(sectors)}
		if err := r.queue.Publish(item); err != nil {
			c.fail(r, Wrap(nil, "reading", "publish", fmt.Sprintf("track %d", track.Number), err))
			return
		}
	}

	c.updateProgress(func(p *Progress) {
		p.ReadPhase = ReadComplete
		p.ReadFraction = 1
	})
}

func logRead(logger *slog.Logger, track disc.Track, stats consensus.Stats) {
	attrs := []logging.Attr{
		logging.Int("passes", stats.Passes),
		logging.Int("sectors", track.Count),
		logging.Int("resolved", stats.Resolved()),
		logging.Int("reconstructed", stats.Reconstructed),
		logging.Int("batch_reads", stats.BatchReads),
	}
	if stats.Reconstructed > 0 {
		logging.WarnWithContext(logger, "track read with reconstructed sectors", "track_reconstructed",
			append(attrs,
				logging.String(logging.FieldImpact, "reconstructed sectors may contain audible errors"),
				logging.String(logging.FieldErrorHint, "clean the disc or raise drive.max_passes"),
			)...)
		return
	}
	logger.Info("track read", logging.Args(append(attrs, logging.String(logging.FieldEventType, "track_read"))...)...)
}
