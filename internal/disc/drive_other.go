//go:build !linux

package disc

import "context"

func driveStatus(string) (DriveStatus, error) {
	return DriveStatusNoInfo, ErrUnsupported
}

func ejectDevice(string) error {
	return ErrUnsupported
}

// Open implements Medium.
func (d *Drive) Open(context.Context) (Reader, error) {
	return nil, ErrUnsupported
}

// Tracks implements Medium.
func (d *Drive) Tracks(context.Context) ([]Track, error) {
	return nil, ErrUnsupported
}
