package disc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Image is a CUE sheet with raw BINARY audio files.
type Image struct {
	path   string
	files  []imageFile
	tracks []Track
	total  int
}

type imageFile struct {
	path    string
	start   int
	sectors int
}

// OpenImage parses the CUE sheet at path and sizes its data files.
func OpenImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue: %w", err)
	}
	defer f.Close()

	sheet, err := ParseCue(f)
	if err != nil {
		return nil, err
	}
	if len(sheet.Files) == 0 {
		return nil, errors.New("cue sheet references no files")
	}

	img := &Image{path: path}
	dir := filepath.Dir(path)
	year, _ := strconv.Atoi(strings.TrimSpace(sheet.Date))
	for _, entry := range sheet.Files {
		if entry.Type != "" && entry.Type != "BINARY" {
			return nil, fmt.Errorf("cue file %q: unsupported type %s", entry.Name, entry.Type)
		}
		dataPath := entry.Name
		if !filepath.IsAbs(dataPath) {
			dataPath = filepath.Join(dir, dataPath)
		}
		info, err := os.Stat(dataPath)
		if err != nil {
			return nil, fmt.Errorf("stat image data: %w", err)
		}
		file := imageFile{path: dataPath, start: img.total, sectors: int(info.Size() / SectorSize)}
		img.files = append(img.files, file)

		for i, ct := range entry.Tracks {
			end := file.sectors
			if i+1 < len(entry.Tracks) {
				end = entry.Tracks[i+1].Index01
			}
			if !ct.IsAudio() || end <= ct.Index01 {
				continue
			}
			performer := ct.Performer
			if performer == "" {
				performer = sheet.Performer
			}
			img.tracks = append(img.tracks, Track{
				Number: ct.Number,
				Start:  file.start + ct.Index01,
				Count:  end - ct.Index01,
				Metadata: Metadata{
					Title:  ct.Title,
					Artist: performer,
					Album:  sheet.Title,
					Genre:  sheet.Genre,
					Year:   year,
				},
			})
		}
		img.total += file.sectors
	}
	if len(img.tracks) == 0 {
		return nil, ErrNoAudioTracks
	}
	return img, nil
}

// ID implements Medium.
func (img *Image) ID() string {
	return img.path
}

// Tracks implements Medium.
func (img *Image) Tracks(ctx context.Context) ([]Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Track, len(img.tracks))
	copy(out, img.tracks)
	return out, nil
}

// Open implements Medium.
func (img *Image) Open(ctx context.Context) (Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader := &imageReader{files: img.files, total: img.total}
	for _, file := range img.files {
		f, err := os.Open(file.path)
		if err != nil {
			reader.Close() //nolint:errcheck
			return nil, fmt.Errorf("open image data: %w", err)
		}
		reader.handles = append(reader.handles, f)
	}
	return reader, nil
}

type imageReader struct {
	files   []imageFile
	handles []*os.File
	total   int
}

func (r *imageReader) ReadBatch(start, max int) ([]Sector, error) {
	if start < 0 || start >= r.total {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, start)
	}
	count := min(max, r.total-start)
	sectors := make([]Sector, 0, count)
	for index := start; index < start+count; index++ {
		sector, err := r.readSector(index)
		if err != nil {
			if len(sectors) > 0 {
				return sectors, nil
			}
			return nil, err
		}
		sectors = append(sectors, sector)
	}
	return sectors, nil
}

func (r *imageReader) readSector(index int) (Sector, error) {
	for i, file := range r.files {
		if index < file.start || index >= file.start+file.sectors {
			continue
		}
		buf := make([]byte, SectorSize)
		offset := int64(index-file.start) * SectorSize
		if _, err := r.handles[i].ReadAt(buf, offset); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read sector %d: %w", index, err)
		}
		return Sector(buf), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrOutOfRange, index)
}

func (r *imageReader) Close() error {
	var firstErr error
	for _, f := range r.handles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.handles = nil
	return firstErr
}
