package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"cddarip/internal/tags"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <file>...",
		Short:       "Show the tags written to extracted files",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, path := range args {
				info, err := tags.Read(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, path)
				fmt.Fprintln(out, renderFields(tagFields(info)))
			}
			return nil
		},
	}
}

func tagFields(info tags.Info) [][2]string {
	fields := [][2]string{
		{"Format", info.Format},
		{"File type", info.FileType},
		{"Title", info.Title},
		{"Artist", info.Artist},
		{"Album", info.Album},
		{"Genre", info.Genre},
		{"Year", positive(info.Year)},
		{"Track", positive(info.Track)},
		{"Artwork", yesNo(info.HasPicture)},
	}
	keys := make([]string, 0, len(info.ReplayGain))
	for key := range info.ReplayGain {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fields = append(fields, [2]string{key, info.ReplayGain[key]})
	}
	return fields
}

func positive(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}
