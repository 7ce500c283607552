package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"cddarip/internal/config"
	"cddarip/internal/disc"
	"cddarip/internal/discmonitor"
	"cddarip/internal/logging"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Extract every audio disc inserted into the drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if opts.medium.device != "" {
				cfg.Drive.Device = opts.medium.device
			}
			if opts.eject {
				cfg.Drive.EjectAfter = true
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(runCtx, cmd, cfg, logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.medium.device, "device", "d", "", "Optical drive device (defaults to drive.device)")
	flags.BoolVarP(&opts.join, "join", "j", false, "Write all tracks into one file")
	flags.BoolVar(&opts.toLibrary, "library", false, "Record extractions in the library catalog")
	flags.BoolVar(&opts.eject, "eject", false, "Eject each disc after a successful extraction")
	return cmd
}

// watcher runs at most one extraction at a time; inserts seen while busy
// are dropped by the monitor.
type watcher struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   extractOptions
	out    io.Writer

	busy atomic.Bool
	wg   sync.WaitGroup
}

func runWatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts extractOptions) error {
	w := &watcher{cfg: cfg, logger: logger, opts: opts, out: cmd.OutOrStdout()}
	monitor := discmonitor.New(cfg, logger, w.handle, w.busy.Load)
	if monitor == nil {
		return errors.New("drive.device is not configured")
	}
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("start disc monitor: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for audio discs (Ctrl+C to stop)\n", monitor.Device())

	<-ctx.Done()
	monitor.Stop()
	w.wg.Wait()
	return nil
}

func (w *watcher) handle(ctx context.Context, device string) error {
	if !w.busy.CompareAndSwap(false, true) {
		return nil
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.busy.Store(false)
		w.extract(ctx, device)
	}()
	return nil
}

func (w *watcher) extract(ctx context.Context, device string) {
	status, err := disc.WaitForReady(ctx, device)
	if err != nil {
		if ctx.Err() == nil {
			logging.WarnWithContext(w.logger, "drive not ready", "drive_not_ready",
				logging.Error(err),
				logging.String("device", device),
				logging.String("status", status.String()),
			)
		}
		return
	}
	if status != disc.DriveStatusDiscOK {
		logging.WarnWithContext(w.logger, "drive did not report a disc", "drive_not_ready",
			logging.String("device", device),
			logging.String("status", status.String()),
		)
		return
	}

	opts := w.opts
	opts.medium = mediumOptions{device: device}
	if err := runExtract(ctx, w.out, w.cfg, w.logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.ErrorWithContext(w.logger, "watched extraction failed", "watch_extract_failed",
			logging.Error(err),
			logging.String("device", device),
		)
	}
}
