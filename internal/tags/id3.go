package tags

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/bogem/id3v2/v2"
)

// ID3Writer writes ID3v2.4 tags. ReplayGain values use TXXX frames.
type ID3Writer struct{}

// WriteTags implements Writer.
func (ID3Writer) WriteTags(ctx context.Context, path string, set Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer t.Close()

	t.SetDefaultEncoding(id3v2.EncodingUTF8)
	t.SetVersion(4)

	for kind, value := range set {
		switch kind {
		case Title:
			t.SetTitle(value)
		case Artist:
			t.SetArtist(value)
		case Album:
			t.SetAlbum(value)
		case Genre:
			t.SetGenre(value)
		case Year:
			t.SetYear(value)
		case Comment:
			t.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "",
				Text:        value,
			})
		case Track:
			t.AddTextFrame(t.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, value)
		case TrackPeak, TrackGain, AlbumPeak, AlbumGain:
			t.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: kindToTXXX(kind),
				Value:       value,
			})
		case Artwork:
			data, err := base64.StdEncoding.DecodeString(value)
			if err != nil {
				return fmt.Errorf("decode artwork: %w", err)
			}
			t.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    http.DetectContentType(data),
				PictureType: id3v2.PTFrontCover,
				Description: "Front cover",
				Picture:     data,
			})
		}
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}

func kindToTXXX(kind Kind) string {
	switch kind {
	case TrackPeak:
		return "REPLAYGAIN_TRACK_PEAK"
	case TrackGain:
		return "REPLAYGAIN_TRACK_GAIN"
	case AlbumPeak:
		return "REPLAYGAIN_ALBUM_PEAK"
	case AlbumGain:
		return "REPLAYGAIN_ALBUM_GAIN"
	default:
		return ""
	}
}
