package extraction

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"cddarip/internal/disc"
	"cddarip/internal/textutil"
)

const defaultJoinName = "%a - %d"

// expandTemplate substitutes %a artist, %d album, %n two-digit track number
// and %t title in template. Codes are case-insensitive; %% is a literal
// percent sign. Substituted values are sanitized so they never introduce
// directories.
func expandTemplate(template string, meta disc.Metadata, number int) string {
	var b strings.Builder
	runes := []rune(template)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '%' || i+1 >= len(runes) {
			b.WriteRune(r)
			continue
		}
		i++
		switch unicode.ToLower(runes[i]) {
		case 'a':
			b.WriteString(textutil.SanitizeFileName(meta.Artist))
		case 'd':
			b.WriteString(textutil.SanitizeFileName(meta.Album))
		case 'n':
			fmt.Fprintf(&b, "%02d", number)
		case 't':
			b.WriteString(textutil.SanitizeFileName(meta.Title))
		case '%':
			b.WriteRune('%')
		default:
			b.WriteRune('%')
			b.WriteRune(runes[i])
		}
	}
	return textutil.SanitizePath(b.String())
}

// trackPath returns the output file for track under dir.
func trackPath(dir, template string, track disc.Track, ext string) string {
	rel := expandTemplate(template, track.Metadata, track.Number)
	if rel == "" || strings.Trim(rel, "- ") == "" {
		rel = fmt.Sprintf("%02d", track.Number)
	}
	return withExt(filepath.Join(dir, filepath.FromSlash(rel)), ext)
}

// joinPath returns the output file for tracks joined into one file.
func joinPath(dir, name string, tracks []disc.Track, ext string) string {
	if strings.TrimSpace(name) == "" {
		name = defaultJoinName
	}
	first := 0
	if len(tracks) > 0 {
		first = tracks[0].Number
	}
	rel := expandTemplate(name, commonMetadata(tracks), first)
	if rel == "" || strings.Trim(rel, "- ") == "" {
		rel = fmt.Sprintf("%02d", first)
		if len(tracks) > 1 {
			rel = fmt.Sprintf("%02d-%02d", first, tracks[len(tracks)-1].Number)
		}
	}
	return withExt(filepath.Join(dir, filepath.FromSlash(rel)), ext)
}

func withExt(path, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return path
	}
	return path + "." + ext
}

// commonMetadata keeps the descriptive fields every track agrees on.
func commonMetadata(tracks []disc.Track) disc.Metadata {
	if len(tracks) == 0 {
		return disc.Metadata{}
	}
	out := tracks[0].Metadata
	for _, t := range tracks[1:] {
		m := t.Metadata
		if m.Title != out.Title {
			out.Title = ""
		}
		if m.Artist != out.Artist {
			out.Artist = ""
		}
		if m.Album != out.Album {
			out.Album = ""
		}
		if m.Genre != out.Genre {
			out.Genre = ""
		}
		if m.Comment != out.Comment {
			out.Comment = ""
		}
		if m.Year != out.Year {
			out.Year = 0
		}
	}
	return out
}
