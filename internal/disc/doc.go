// Package disc interfaces with optical drives and raw disc images.
//
// It exposes the Medium and Reader abstractions the extraction pipeline reads
// Red Book audio sectors through, a batch cache that amortizes physical reads,
// the Linux ioctl drive implementation, a CUE/BIN image implementation for
// hardware-free extraction, and the drive status, eject, and device lock
// helpers used by the CLI.
package disc
