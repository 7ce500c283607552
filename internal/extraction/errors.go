package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrSectorRead        = errors.New("sector read error")
	ErrEncodeMismatch    = errors.New("encoded sample count mismatch")
	ErrEncoderOpen       = errors.New("encoder open failed")
	ErrEncoderWrite      = errors.New("encoder write failed")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "extraction failure"
	}
	return strings.Join(parts, ": ")
}

// Kind is the terminal classification of a job.
type Kind int

const (
	KindNone Kind = iota
	KindCancelled
	KindDeviceUnavailable
	KindSectorRead
	KindEncodeMismatch
	KindEncoderOpen
	KindEncoderWrite
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindCancelled:
		return "cancelled"
	case KindDeviceUnavailable:
		return "device_unavailable"
	case KindSectorRead:
		return "sector_read"
	case KindEncodeMismatch:
		return "encode_mismatch"
	case KindEncoderOpen:
		return "encoder_open"
	case KindEncoderWrite:
		return "encoder_write"
	default:
		return "internal"
	}
}

// Classify maps err to its terminal Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDeviceUnavailable):
		return KindDeviceUnavailable
	case errors.Is(err, ErrSectorRead):
		return KindSectorRead
	case errors.Is(err, ErrEncodeMismatch):
		return KindEncodeMismatch
	case errors.Is(err, ErrEncoderOpen):
		return KindEncoderOpen
	case errors.Is(err, ErrEncoderWrite):
		return KindEncoderWrite
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindInternal
	}
}

// hint returns the next step suggested to the user for k.
func hint(k Kind) string {
	switch k {
	case KindDeviceUnavailable:
		return "check that a disc is inserted and the device path is correct"
	case KindSectorRead:
		return "clean the disc or raise drive.max_passes"
	case KindEncodeMismatch, KindEncoderWrite:
		return "check free space in the output directory and the encoder settings"
	case KindEncoderOpen:
		return "check the output directory permissions and encoder binary"
	default:
		return ""
	}
}
