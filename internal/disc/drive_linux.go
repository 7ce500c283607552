//go:build linux

package disc

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	ioctlCDROMReadTOCHeader = 0x5305
	ioctlCDROMReadTOCEntry  = 0x5306
	ioctlCDROMEject         = 0x5309
	ioctlCDROMReadAudio     = 0x530e
	ioctlCDROMDriveStatus   = 0x5326

	cdromLBA     = 0x01
	leadoutTrack = 0xAA
	dataTrackBit = 0x04

	// Gap between the audio session and the data session on an enhanced CD.
	multiSessionGap = 11400
)

type tocHeader struct {
	First uint8
	Last  uint8
}

type tocEntry struct {
	Track    uint8
	AdrCtrl  uint8
	Format   uint8
	_        uint8
	Addr     int32
	DataMode uint8
	_        [3]uint8
}

type readAudio struct {
	Addr       int32
	AddrFormat uint8
	_          [3]byte
	NFrames    int32
	Buf        *byte
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) (uintptr, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return r1, errno
	}
	return r1, nil
}

func openDevice(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("open %s: %w", path, err)
	}
	return fd, nil
}

func driveStatus(devicePath string) (DriveStatus, error) {
	fd, err := openDevice(devicePath)
	if err != nil {
		return DriveStatusNoInfo, err
	}
	defer unix.Close(fd) //nolint:errcheck

	r1, err := ioctl(fd, ioctlCDROMDriveStatus, nil)
	if err != nil {
		return DriveStatusNoInfo, fmt.Errorf("ioctl CDROM_DRIVE_STATUS on %s: %w", devicePath, err)
	}
	return DriveStatus(r1), nil
}

func ejectDevice(devicePath string) error {
	fd, err := openDevice(devicePath)
	if err != nil {
		return err
	}
	defer unix.Close(fd) //nolint:errcheck
	if _, err := ioctl(fd, ioctlCDROMEject, nil); err != nil {
		return fmt.Errorf("ioctl CDROMEJECT on %s: %w", devicePath, err)
	}
	return nil
}

// Open implements Medium.
func (d *Drive) Open(ctx context.Context) (Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fd, err := openDevice(d.Device)
	if err != nil {
		return nil, err
	}
	return &driveReader{fd: fd, device: d.Device}, nil
}

// Tracks implements Medium by reading the table of contents.
func (d *Drive) Tracks(ctx context.Context) ([]Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fd, err := openDevice(d.Device)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd) //nolint:errcheck

	var header tocHeader
	if _, err := ioctl(fd, ioctlCDROMReadTOCHeader, unsafe.Pointer(&header)); err != nil {
		return nil, fmt.Errorf("read toc header on %s: %w", d.Device, err)
	}
	if header.Last < header.First {
		return nil, ErrNoAudioTracks
	}

	entries := make([]tocEntry, 0, int(header.Last-header.First)+2)
	for n := int(header.First); n <= int(header.Last); n++ {
		entry := tocEntry{Track: uint8(n), Format: cdromLBA}
		if _, err := ioctl(fd, ioctlCDROMReadTOCEntry, unsafe.Pointer(&entry)); err != nil {
			return nil, fmt.Errorf("read toc entry %d on %s: %w", n, d.Device, err)
		}
		entries = append(entries, entry)
	}
	leadout := tocEntry{Track: leadoutTrack, Format: cdromLBA}
	if _, err := ioctl(fd, ioctlCDROMReadTOCEntry, unsafe.Pointer(&leadout)); err != nil {
		return nil, fmt.Errorf("read toc lead-out on %s: %w", d.Device, err)
	}
	entries = append(entries, leadout)

	tracks := tracksFromTOC(entries)
	if len(tracks) == 0 {
		return nil, ErrNoAudioTracks
	}
	return tracks, nil
}

func tracksFromTOC(entries []tocEntry) []Track {
	var tracks []Track
	for i := 0; i+1 < len(entries); i++ {
		entry := entries[i]
		if (entry.AdrCtrl>>4)&dataTrackBit != 0 {
			continue
		}
		next := entries[i+1]
		end := int(next.Addr)
		if next.Track != leadoutTrack && (next.AdrCtrl>>4)&dataTrackBit != 0 {
			end -= multiSessionGap
		}
		count := end - int(entry.Addr)
		if count <= 0 {
			continue
		}
		tracks = append(tracks, Track{Number: int(entry.Track), Start: int(entry.Addr), Count: count})
	}
	return tracks
}

type driveReader struct {
	fd     int
	device string
}

func (r *driveReader) ReadBatch(start, max int) ([]Sector, error) {
	if max <= 0 {
		return nil, nil
	}
	buf := make([]byte, max*SectorSize)
	req := readAudio{
		Addr:       int32(start),
		AddrFormat: cdromLBA,
		NFrames:    int32(max),
		Buf:        &buf[0],
	}
	if _, err := ioctl(r.fd, ioctlCDROMReadAudio, unsafe.Pointer(&req)); err != nil {
		return nil, fmt.Errorf("read audio %d+%d on %s: %w", start, max, r.device, err)
	}
	sectors := make([]Sector, max)
	for i := range sectors {
		sectors[i] = Sector(buf[i*SectorSize : (i+1)*SectorSize : (i+1)*SectorSize])
	}
	return sectors, nil
}

func (r *driveReader) Close() error {
	if r.fd < 0 {
		return nil
	}
	err := unix.Close(r.fd)
	r.fd = -1
	return err
}
