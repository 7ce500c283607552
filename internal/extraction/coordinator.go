package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"cddarip/internal/config"
	"cddarip/internal/consensus"
	"cddarip/internal/disc"
	"cddarip/internal/encoder"
	"cddarip/internal/handoff"
	"cddarip/internal/library"
	"cddarip/internal/logging"
	"cddarip/internal/tags"
)

// Catalog records jobs and the files they produce.
type Catalog interface {
	StartJob(ctx context.Context, job library.Job) error
	RecordFile(ctx context.Context, file library.File) error
	FinishJob(ctx context.Context, id string, outcome library.Outcome) error
}

// TrackStats pairs a track number with its consensus read statistics.
type TrackStats struct {
	Track int
	Stats consensus.Stats
}

// Result is the terminal outcome of a job.
type Result struct {
	JobID     string
	Files     []File
	AlbumPeak float64
	AlbumGain *float64
	// TagErrors lists tag writes that failed. The audio files were kept.
	TagErrors []error
	ReadStats []TrackStats
	Cancelled bool
	Kind      Kind
	Err       error
	Elapsed   time.Duration
}

// OK reports whether the job completed.
func (r Result) OK() bool {
	return r.Err == nil && !r.Cancelled
}

// Coordinator runs one extraction job at a time.
type Coordinator struct {
	cfg       *config.Config
	medium    disc.Medium
	encoder   encoder.Encoder
	tagWriter tags.Writer
	catalog   Catalog
	ejector   disc.Ejector
	logger    *slog.Logger

	mu     sync.Mutex
	wg     sync.WaitGroup
	active *run
	last   Result

	progressMu sync.Mutex
	progress   Progress
}

// run holds the state shared by one job's workers.
type run struct {
	job      Job
	parent   context.Context
	cancel   context.CancelFunc
	reader   disc.Reader
	lock     *flock.Flock
	queue    *handoff.Queue
	pipeline *pipeline
	started  time.Time
	done     chan struct{}

	userCancel atomic.Bool
	completed  atomic.Bool
	failOnce   sync.Once
	err        error

	mu    sync.Mutex
	stats []TrackStats
}

// New constructs a coordinator. tagWriter and catalog may be nil. A physical
// drive medium is ejected after a successful job when drive.eject_after is set.
func New(cfg *config.Config, medium disc.Medium, enc encoder.Encoder, tagWriter tags.Writer, catalog Catalog, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		cfg:       cfg,
		medium:    medium,
		encoder:   enc,
		tagWriter: tagWriter,
		catalog:   catalog,
		logger:    logging.NewComponentLogger(logger, "extraction"),
	}
	if _, ok := medium.(*disc.Drive); ok {
		c.ejector = disc.NewEjector()
	}
	return c
}

// SetEjector replaces the ejector used after successful jobs.
func (c *Coordinator) SetEjector(e disc.Ejector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ejector = e
}

// Start validates job, claims the medium, and launches both workers.
func (c *Coordinator) Start(ctx context.Context, job Job) error {
	if err := job.validate(); err != nil {
		return err
	}
	if c.medium == nil || c.encoder == nil {
		return errors.New("extraction coordinator requires a medium and an encoder")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return errors.New("extraction already running")
	}

	lock, err := disc.LockDevice(c.cfg.Paths.StateDir, c.medium.ID())
	if err != nil {
		return Wrap(ErrDeviceUnavailable, "starting", "lock", c.medium.ID(), err)
	}
	reader, err := c.medium.Open(ctx)
	if err != nil {
		_ = lock.Unlock()
		return Wrap(ErrDeviceUnavailable, "starting", "open", c.medium.ID(), err)
	}

	ctx = logging.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, c.logger)
	p, err := newPipeline(job, c.cfg.Paths.OutputDir, c.cfg.Extract.FilenameTemplate, c.encoder, c.tagWriter,
		logging.WithContext(logging.WithWorker(ctx, "encode"), c.logger))
	if err != nil {
		_ = reader.Close()
		_ = lock.Unlock()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &run{
		job:      job,
		parent:   ctx,
		cancel:   cancel,
		reader:   reader,
		lock:     lock,
		queue:    handoff.NewQueue(),
		pipeline: p,
		started:  time.Now(),
		done:     make(chan struct{}),
	}
	p.state = c.setEncodeState
	p.progress = func(f float64) {
		c.updateProgress(func(pr *Progress) { pr.EncodeFraction = f })
	}

	c.progressMu.Lock()
	c.progress = Progress{JobID: job.ID, Tracks: len(job.Tracks)}
	c.progressMu.Unlock()

	c.startCatalog(r, logger)

	logger.Info("extraction started",
		logging.String("medium", c.medium.ID()),
		logging.Int("tracks", len(job.Tracks)),
		logging.Bool("join", job.Join),
		logging.String("encoder", c.encoder.Name()),
		logging.String(logging.FieldEventType, "extraction_started"),
	)

	c.active = r
	c.wg.Add(2)
	go c.runReader(runCtx, r)
	go c.runEncoder(runCtx, r)
	go c.finish(r, logger)
	return nil
}

// Cancel stops the running job and waits for both workers to exit. It is safe
// to call more than once and when no job runs.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r == nil {
		return
	}
	r.userCancel.Store(true)
	r.cancel()
	<-r.done
}

// Wait blocks until the running job ends and returns its result. Without an
// active job it returns the previous result.
func (c *Coordinator) Wait() Result {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r != nil {
		<-r.done
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Snapshot returns the current progress.
func (c *Coordinator) Snapshot() Progress {
	c.progressMu.Lock()
	defer c.progressMu.Unlock()
	return c.progress
}

func (c *Coordinator) updateProgress(fn func(*Progress)) {
	c.progressMu.Lock()
	fn(&c.progress)
	c.progressMu.Unlock()
}

func (c *Coordinator) setEncodeState(s EncodeState) {
	c.updateProgress(func(p *Progress) { p.EncodeState = s })
}

// fail records the first error of the job and stops the other worker.
// Errors caused by cancellation are not failures.
func (c *Coordinator) fail(r *run, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	r.failOnce.Do(func() {
		r.err = err
		r.cancel()
	})
}

func (c *Coordinator) runEncoder(ctx context.Context, r *run) {
	defer c.wg.Done()
	p := r.pipeline
	last := len(r.job.Tracks) - 1
	next := 0
	for next <= last {
		select {
		case <-ctx.Done():
			p.abort()
			c.setEncodeState(EncodeFailed)
			return
		case <-r.queue.Ready():
		}
		if ctx.Err() != nil {
			p.abort()
			c.setEncodeState(EncodeFailed)
			return
		}
		for next <= last {
			item, ok := r.queue.TakeOldest()
			if !ok {
				break
			}
			c.updateProgress(func(pr *Progress) {
				pr.EncodeTrack = next + 1
				pr.EncodeNumber = item.Track.Number
			})
			if err := p.encode(ctx, item, next == last); err != nil {
				p.abort()
				c.setEncodeState(EncodeFailed)
				c.fail(r, err)
				return
			}
			next++
		}
	}
	r.completed.Store(true)
	c.setEncodeState(EncodeFinished)
}

// finish waits for both workers, releases the medium, and publishes the result.
func (c *Coordinator) finish(r *run, logger *slog.Logger) {
	c.wg.Wait()
	r.cancel()

	if dropped := r.queue.Drop(); dropped > 0 {
		logger.Debug("discarded unencoded tracks", logging.Int("count", dropped))
	}
	if err := r.lock.Unlock(); err != nil {
		logger.Warn("releasing device lock failed", logging.Error(err))
	}

	p := r.pipeline
	res := Result{
		JobID:     r.job.ID,
		Files:     p.files,
		AlbumPeak: p.albumPeak,
		AlbumGain: p.albumGain,
		TagErrors: p.tagErrors,
		Elapsed:   time.Since(r.started),
	}
	r.mu.Lock()
	res.ReadStats = append([]TrackStats(nil), r.stats...)
	r.mu.Unlock()

	switch {
	case r.err != nil:
		res.Err = r.err
		res.Kind = Classify(r.err)
		logging.ErrorWithContext(logger, "extraction failed", "extraction_failed",
			logging.Error(r.err),
			logging.String("kind", res.Kind.String()),
			logging.String(logging.FieldErrorHint, hint(res.Kind)),
		)
	case r.completed.Load():
		res.Kind = KindNone
		logger.Info("extraction completed",
			logging.Int("files", len(res.Files)),
			logging.Float64("album_peak", res.AlbumPeak),
			logging.Int("tag_errors", len(res.TagErrors)),
			logging.Duration("elapsed", res.Elapsed),
			logging.String(logging.FieldEventType, "extraction_completed"),
		)
	default:
		res.Cancelled = true
		res.Kind = KindCancelled
		logger.Info("extraction cancelled",
			logging.Bool("user", r.userCancel.Load()),
			logging.String(logging.FieldEventType, "extraction_cancelled"),
		)
	}

	c.finishCatalog(r, res, logger)
	if res.OK() {
		c.eject(logger)
	}

	c.mu.Lock()
	c.last = res
	c.active = nil
	close(r.done)
	c.mu.Unlock()
}

func (c *Coordinator) eject(logger *slog.Logger) {
	c.mu.Lock()
	ejector := c.ejector
	c.mu.Unlock()
	if !c.cfg.Drive.EjectAfter || ejector == nil {
		return
	}
	if err := ejector.Eject(context.Background(), c.medium.ID()); err != nil {
		logging.WarnWithContext(logger, "eject failed", "eject_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "disc remains in the drive"),
			logging.String(logging.FieldErrorHint, "eject the disc manually"),
		)
	}
}

func (c *Coordinator) startCatalog(r *run, logger *slog.Logger) {
	if !r.job.ToLibrary || c.catalog == nil {
		return
	}
	meta := commonMetadata(r.job.Tracks)
	err := c.catalog.StartJob(r.parent, library.Job{
		ID:         r.job.ID,
		Medium:     c.medium.ID(),
		Album:      meta.Album,
		Artist:     meta.Artist,
		TrackCount: len(r.job.Tracks),
		Joined:     r.job.Join,
		CreatedAt:  r.started,
	})
	if err != nil {
		logging.WarnWithContext(logger, "recording job in library failed", "library_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "job will be missing from the library"),
			logging.String(logging.FieldErrorHint, "check library_db path permissions"),
		)
	}
}

func (c *Coordinator) finishCatalog(r *run, res Result, logger *slog.Logger) {
	if !r.job.ToLibrary || c.catalog == nil {
		return
	}
	ctx := context.WithoutCancel(r.parent)
	var errs []error
	for _, f := range res.Files {
		errs = append(errs, c.catalog.RecordFile(ctx, library.File{
			JobID:  r.job.ID,
			Path:   f.Path,
			Tracks: f.Tracks,
			Title:  titleFor(r.job.Tracks, f.Tracks),
			Frames: f.Frames,
			Peak:   f.Peak,
			Gain:   f.Gain,
		}))
	}
	outcome := library.Outcome{Status: library.StatusCompleted}
	switch {
	case res.Err != nil:
		outcome = library.Outcome{Status: library.StatusFailed, Message: res.Err.Error()}
	case res.Cancelled:
		outcome = library.Outcome{Status: library.StatusCancelled}
	default:
		peak := res.AlbumPeak
		outcome.AlbumPeak = &peak
		outcome.AlbumGain = res.AlbumGain
	}
	errs = append(errs, c.catalog.FinishJob(ctx, r.job.ID, outcome))
	if err := errors.Join(errs...); err != nil {
		logging.WarnWithContext(logger, "updating library failed", "library_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "library entry may be incomplete"),
			logging.String(logging.FieldErrorHint, "check library_db path permissions"),
		)
	}
}

func titleFor(tracks []disc.Track, numbers []int) string {
	if len(numbers) != 1 {
		return commonMetadata(tracks).Album
	}
	for _, t := range tracks {
		if t.Number == numbers[0] {
			return t.Metadata.Title
		}
	}
	return fmt.Sprintf("Track %d", numbers[0])
}
