package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cddarip/internal/config"
	"cddarip/internal/encoder"
	"cddarip/internal/extraction"
	"cddarip/internal/library"
	"cddarip/internal/preflight"
	"cddarip/internal/tags"
)

type extractOptions struct {
	medium    mediumOptions
	tracks    string
	join      bool
	joinName  string
	toLibrary bool
	eject     bool
	passes    int
	meta      metadataOverrides
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract tracks from a disc or CUE/BIN image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if opts.eject {
				cfg.Drive.EjectAfter = true
			}
			if opts.passes > 0 {
				cfg.Drive.MaxPasses = opts.passes
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runExtract(runCtx, cmd.OutOrStdout(), cfg, logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.medium.image, "image", "i", "", "Read from a CUE sheet instead of the drive")
	flags.StringVarP(&opts.medium.device, "device", "d", "", "Optical drive device (defaults to drive.device)")
	flags.StringVarP(&opts.tracks, "tracks", "t", "", "Tracks to extract, e.g. 1,3,5-7 (default all)")
	flags.BoolVarP(&opts.join, "join", "j", false, "Write all tracks into one file")
	flags.StringVar(&opts.joinName, "join-name", "", "Filename template for joined output (default \"%a - %d\")")
	flags.BoolVar(&opts.toLibrary, "library", false, "Record the extraction in the library catalog")
	flags.BoolVar(&opts.eject, "eject", false, "Eject the disc after a successful extraction")
	flags.IntVar(&opts.passes, "passes", 0, "Maximum read passes per track (overrides drive.max_passes)")
	flags.StringVar(&opts.meta.artist, "artist", "", "Artist tag for every track")
	flags.StringVar(&opts.meta.album, "album", "", "Album tag for every track")
	flags.StringVar(&opts.meta.genre, "genre", "", "Genre tag for every track")
	flags.StringVar(&opts.meta.comment, "comment", "", "Comment tag for every track")
	flags.IntVar(&opts.meta.year, "year", 0, "Year tag for every track")
	flags.StringArrayVar(&opts.meta.titles, "title", nil, "Track title as N=Title (repeatable)")
	flags.StringVar(&opts.meta.artwork, "artwork", "", "Image file embedded as cover art")
	return cmd
}

func runExtract(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, opts extractOptions) error {
	if check := preflight.CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir); !check.Passed {
		return fmt.Errorf("output directory not usable: %s", check.Detail)
	}
	medium, err := opts.medium.open(cfg)
	if err != nil {
		return err
	}
	all, err := medium.Tracks(ctx)
	if err != nil {
		return fmt.Errorf("read table of contents: %w", err)
	}
	numbers, err := parseTrackList(opts.tracks)
	if err != nil {
		return err
	}
	tracks, err := extraction.SelectTracks(all, numbers)
	if err != nil {
		return err
	}
	if err := opts.meta.apply(tracks); err != nil {
		return err
	}

	enc, err := encoder.New(cfg.Encoder, cfg.FFmpegBinary())
	if err != nil {
		return err
	}

	job := extraction.NewJob(tracks)
	job.Join = opts.join || cfg.Extract.Join
	job.JoinName = opts.joinName
	job.ToLibrary = opts.toLibrary || cfg.Extract.ToLibrary

	var catalog extraction.Catalog
	if job.ToLibrary {
		store, err := library.Open(cfg)
		if err != nil {
			return fmt.Errorf("open library: %w", err)
		}
		defer store.Close()
		catalog = store
	}

	coord := extraction.New(cfg, medium, enc, tags.NewRouter(), catalog, logger)
	if err := coord.Start(ctx, job); err != nil {
		return err
	}

	done := make(chan extraction.Result, 1)
	go func() { done <- coord.Wait() }()
	var res extraction.Result
	if isTerminal(out) {
		res = showProgressBars(out, coord, done)
	} else {
		res = logProgress(logger, coord, done)
	}

	switch {
	case res.Cancelled:
		fmt.Fprintln(out, "Extraction cancelled")
		return context.Canceled
	case res.Err != nil:
		return res.Err
	}
	printResult(out, cfg.Paths.OutputDir, res)
	return nil
}

func printResult(out io.Writer, root string, res extraction.Result) {
	rows := make([][]string, 0, len(res.Files))
	for _, f := range res.Files {
		gain := "-"
		if f.Gain != nil {
			gain = tags.FormatGain(*f.Gain)
		}
		rel, err := filepath.Rel(root, f.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = f.Path
		}
		rows = append(rows, []string{joinInts(f.Tracks), rel, tags.FormatPeak(f.Peak), gain})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Tracks", "File", "Peak", "Gain"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
	))
	albumGain := "-"
	if res.AlbumGain != nil {
		albumGain = tags.FormatGain(*res.AlbumGain)
	}
	fmt.Fprintf(out, "Album peak %s, album gain %s, %s\n", tags.FormatPeak(res.AlbumPeak), albumGain, res.Elapsed.Round(1e8))
	for _, err := range res.TagErrors {
		fmt.Fprintf(out, "warning: %v\n", err)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
