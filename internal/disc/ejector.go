package disc

import (
	"context"
	"fmt"
	"os/exec"
)

// Ejector defines disc eject operations.
type Ejector interface {
	Eject(ctx context.Context, device string) error
}

type driveEjector struct {
	fallback string
}

// NewEjector creates an ejector that issues the eject ioctl and falls back to
// the eject utility when the ioctl is refused.
func NewEjector() Ejector {
	return driveEjector{fallback: "eject"}
}

func (e driveEjector) Eject(ctx context.Context, device string) error {
	device = ExtractDevicePath(device)
	if device != "" {
		if err := ejectDevice(device); err == nil {
			return nil
		}
	}
	var cmd *exec.Cmd
	if device == "" {
		cmd = exec.CommandContext(ctx, e.fallback)
	} else {
		cmd = exec.CommandContext(ctx, e.fallback, device)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("eject %s: %w", device, err)
	}
	return nil
}
