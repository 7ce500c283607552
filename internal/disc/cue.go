package disc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CueSheet is the parsed subset of a CUE sheet needed to locate audio tracks.
type CueSheet struct {
	Title     string
	Performer string
	Genre     string
	Date      string
	Files     []CueFile
}

// CueFile is one FILE entry and the tracks stored in it.
type CueFile struct {
	Name   string
	Type   string
	Tracks []CueTrack
}

// CueTrack is one TRACK entry. Index01 is the sector offset of INDEX 01
// within its file.
type CueTrack struct {
	Number    int
	Mode      string
	Title     string
	Performer string
	Index01   int
}

// IsAudio reports whether the track carries Red Book audio.
func (t CueTrack) IsAudio() bool {
	return strings.EqualFold(t.Mode, "AUDIO")
}

// ParseCue reads a CUE sheet.
func ParseCue(r io.Reader) (*CueSheet, error) {
	sheet := &CueSheet{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	var file *CueFile
	var track *CueTrack

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		fields := splitCueLine(line)
		keyword := strings.ToUpper(fields[0])
		args := fields[1:]

		switch keyword {
		case "FILE":
			if len(args) < 1 {
				return nil, fmt.Errorf("cue line %d: FILE without name", lineNo)
			}
			entry := CueFile{Name: args[0]}
			if len(args) > 1 {
				entry.Type = strings.ToUpper(args[1])
			}
			sheet.Files = append(sheet.Files, entry)
			file = &sheet.Files[len(sheet.Files)-1]
			track = nil
		case "TRACK":
			if file == nil {
				return nil, fmt.Errorf("cue line %d: TRACK before FILE", lineNo)
			}
			if len(args) < 2 {
				return nil, fmt.Errorf("cue line %d: malformed TRACK", lineNo)
			}
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("cue line %d: track number %q: %w", lineNo, args[0], err)
			}
			file.Tracks = append(file.Tracks, CueTrack{Number: number, Mode: strings.ToUpper(args[1]), Index01: -1})
			track = &file.Tracks[len(file.Tracks)-1]
		case "INDEX":
			if track == nil {
				return nil, fmt.Errorf("cue line %d: INDEX outside TRACK", lineNo)
			}
			if len(args) < 2 {
				return nil, fmt.Errorf("cue line %d: malformed INDEX", lineNo)
			}
			if args[0] != "01" && args[0] != "1" {
				continue
			}
			frames, err := ParseMSF(args[1])
			if err != nil {
				return nil, fmt.Errorf("cue line %d: %w", lineNo, err)
			}
			track.Index01 = frames
		case "TITLE":
			if len(args) > 0 {
				if track != nil {
					track.Title = args[0]
				} else {
					sheet.Title = args[0]
				}
			}
		case "PERFORMER":
			if len(args) > 0 {
				if track != nil {
					track.Performer = args[0]
				} else {
					sheet.Performer = args[0]
				}
			}
		case "REM":
			if len(args) >= 2 && track == nil {
				switch strings.ToUpper(args[0]) {
				case "GENRE":
					sheet.Genre = args[1]
				case "DATE":
					sheet.Date = args[1]
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cue: %w", err)
	}
	for _, f := range sheet.Files {
		for _, t := range f.Tracks {
			if t.Index01 < 0 {
				return nil, fmt.Errorf("cue track %d has no INDEX 01", t.Number)
			}
		}
	}
	return sheet, nil
}

// ParseMSF converts an mm:ss:ff position to a sector count.
func ParseMSF(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid msf %q", value)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid msf %q", value)
		}
		nums[i] = n
	}
	if nums[1] >= 60 || nums[2] >= SectorsPerSecond {
		return 0, fmt.Errorf("invalid msf %q", value)
	}
	return (nums[0]*60+nums[1])*SectorsPerSecond + nums[2], nil
}

func splitCueLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ' ' || r == '\t') && !inQuotes:
			if current.Len() > 0 {
				fields = append(fields, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || inQuotes {
		fields = append(fields, current.String())
	}
	return fields
}
