package disc

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DriveStatus represents the result of a CDROM_DRIVE_STATUS ioctl call.
type DriveStatus int

const (
	DriveStatusNoInfo   DriveStatus = 0
	DriveStatusNoDisc   DriveStatus = 1
	DriveStatusTrayOpen DriveStatus = 2
	DriveStatusNotReady DriveStatus = 3
	DriveStatusDiscOK   DriveStatus = 4
)

// String returns a human-readable label for the drive status.
func (s DriveStatus) String() string {
	switch s {
	case DriveStatusNoInfo:
		return "no_info"
	case DriveStatusNoDisc:
		return "no_disc"
	case DriveStatusTrayOpen:
		return "tray_open"
	case DriveStatusNotReady:
		return "not_ready"
	case DriveStatusDiscOK:
		return "disc_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Drive is a physical optical drive addressed by its device node.
type Drive struct {
	Device string
}

// NewDrive returns a Drive for device after normalizing the path.
func NewDrive(device string) *Drive {
	return &Drive{Device: ExtractDevicePath(device)}
}

// ID implements Medium.
func (d *Drive) ID() string {
	return d.Device
}

// Status queries the drive tray and media state.
func (d *Drive) Status() (DriveStatus, error) {
	return CheckDriveStatus(d.Device)
}

// ExtractDevicePath normalizes user supplied device references such as
// "dev:/dev/sr0" or "sr0" to a device node path.
func ExtractDevicePath(device string) string {
	trimmed := strings.TrimSpace(device)
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "/"):
		return trimmed
	case strings.HasPrefix(trimmed, "dev:"):
		return strings.TrimPrefix(trimmed, "dev:")
	case !strings.Contains(trimmed, "/"):
		return "/dev/" + trimmed
	}
	return trimmed
}

// CheckDriveStatus queries the drive state using the CDROM_DRIVE_STATUS ioctl.
// Returns an error if the device cannot be opened or the ioctl fails.
func CheckDriveStatus(devicePath string) (DriveStatus, error) {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath == "" {
		return DriveStatusNoInfo, fmt.Errorf("empty device path")
	}
	return driveStatus(devicePath)
}

// WaitForReady polls the drive up to 60 times at 1-second intervals until
// it reports DriveStatusDiscOK or the context is cancelled.
func WaitForReady(ctx context.Context, devicePath string) (DriveStatus, error) {
	const (
		maxPolls     = 60
		pollInterval = 1 * time.Second
	)

	var lastStatus DriveStatus
	for range maxPolls {
		status, err := CheckDriveStatus(devicePath)
		if err != nil {
			return status, err
		}
		lastStatus = status
		if status == DriveStatusDiscOK {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return lastStatus, ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return lastStatus, fmt.Errorf("drive %s not ready after %d polls (last status: %s)", devicePath, maxPolls, lastStatus)
}
