package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cddarip/internal/disc"
)

func newTOCCommand(ctx *commandContext) *cobra.Command {
	var opts mediumOptions

	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Show the audio tracks on a disc or image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			medium, err := opts.open(cfg)
			if err != nil {
				return err
			}
			tracks, err := medium.Tracks(cmd.Context())
			if err != nil {
				return fmt.Errorf("read table of contents: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Medium: %s\n", medium.ID())
			fmt.Fprintln(out, renderTOC(tracks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "Read a CUE sheet instead of the drive")
	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "Optical drive device (defaults to drive.device)")
	return cmd
}

func renderTOC(tracks []disc.Track) string {
	rows := make([][]string, 0, len(tracks)+1)
	total := 0
	for _, t := range tracks {
		total += t.Count
		rows = append(rows, []string{
			strconv.Itoa(t.Number),
			strconv.Itoa(t.Start),
			strconv.Itoa(t.Count),
			formatDuration(t.Count),
			t.Metadata.Title,
		})
	}
	rows = append(rows, []string{"", "", strconv.Itoa(total), formatDuration(total), fmt.Sprintf("%d tracks", len(tracks))})
	return renderTable(
		[]string{"Track", "Start", "Sectors", "Length", "Title"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
