package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cddarip/internal/library"
	"cddarip/internal/tags"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse recorded extractions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newLibraryListCommand(ctx), newLibraryShowCommand(ctx))
	return cmd
}

func openLibrary(ctx *commandContext) (*library.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := library.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return store, nil
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List extraction jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.ListJobs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No extractions recorded")
				return nil
			}
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					shortID(job.ID),
					job.CreatedAt.Local().Format(time.DateTime),
					string(job.Status),
					strconv.Itoa(job.TrackCount),
					job.Artist,
					job.Album,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Status", "Tracks", "Artist", "Album"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show (0 for all)")
	return cmd
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLibrary(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := findJob(cmd, store, args[0])
			if err != nil {
				return err
			}
			files, err := store.Files(cmd.Context(), job.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fields := [][2]string{
				{"ID", job.ID},
				{"Medium", job.Medium},
				{"Artist", job.Artist},
				{"Album", job.Album},
				{"Status", string(job.Status)},
				{"Error", job.ErrorMessage},
				{"Joined", yesNo(job.Joined)},
				{"Started", job.CreatedAt.Local().Format(time.DateTime)},
			}
			if job.FinishedAt != nil {
				fields = append(fields, [2]string{"Finished", job.FinishedAt.Local().Format(time.DateTime)})
			}
			if job.AlbumPeak != nil {
				fields = append(fields, [2]string{"Album peak", tags.FormatPeak(*job.AlbumPeak)})
			}
			if job.AlbumGain != nil {
				fields = append(fields, [2]string{"Album gain", tags.FormatGain(*job.AlbumGain)})
			}
			fmt.Fprintln(out, renderFields(fields))

			if len(files) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				gain := "-"
				if f.Gain != nil {
					gain = tags.FormatGain(*f.Gain)
				}
				rows = append(rows, []string{joinInts(f.Tracks), f.Title, f.Path, tags.FormatPeak(f.Peak), gain})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tracks", "Title", "Path", "Peak", "Gain"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

// findJob resolves a full id or the unique prefix printed by library list.
func findJob(cmd *cobra.Command, store *library.Store, id string) (library.Job, error) {
	job, err := store.GetJob(cmd.Context(), id)
	if err == nil || !errors.Is(err, library.ErrNotFound) {
		return job, err
	}
	jobs, err := store.ListJobs(cmd.Context(), 0)
	if err != nil {
		return library.Job{}, err
	}
	var match *library.Job
	for i := range jobs {
		if len(id) >= 4 && strings.HasPrefix(jobs[i].ID, id) {
			if match != nil {
				return library.Job{}, fmt.Errorf("job id %q is ambiguous", id)
			}
			match = &jobs[i]
		}
	}
	if match == nil {
		return library.Job{}, fmt.Errorf("job %s: %w", id, library.ErrNotFound)
	}
	return *match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
