package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cddarip/internal/disc"
)

func newDriveCommand(ctx *commandContext) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Optical drive utilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&device, "device", "d", "", "Optical drive device (defaults to drive.device)")

	cmd.AddCommand(newDriveStatusCommand(ctx, &device), newDriveEjectCommand(ctx, &device))
	return cmd
}

func newDriveStatusCommand(ctx *commandContext, device *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report tray and media state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := mediumOptions{device: *device}.devicePath(cfg)
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			status, err := disc.CheckDriveStatus(path)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Drive", statusError, fmt.Sprintf("%s (%v)", path, err), colorize))
				return nil
			}
			kind := statusWarn
			if status == disc.DriveStatusDiscOK {
				kind = statusOK
			}
			fmt.Fprintln(out, renderStatusLine("Drive", kind, fmt.Sprintf("%s (%s)", path, status), colorize))
			return nil
		},
	}
}

func newDriveEjectCommand(ctx *commandContext, device *string) *cobra.Command {
	return &cobra.Command{
		Use:   "eject",
		Short: "Eject the disc",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := mediumOptions{device: *device}.devicePath(cfg)
			if err := disc.NewEjector().Eject(cmd.Context(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s\n", path)
			return nil
		},
	}
}
