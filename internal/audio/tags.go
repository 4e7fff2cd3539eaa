package audio

import (
	"fmt"
	"strconv"

	"github.com/handiism/splitaudio/internal/model"
)

// Field is one tag key and value in the encoder's vocabulary.
type Field struct {
	Key   string
	Value string
}

// TagSet holds the formatted tag values for one track. Empty values are
// not written.
type TagSet struct {
	Title       string
	Track       string
	Disc        string
	Album       string
	Artist      string
	AlbumArtist string
	Date        string
}

// NewTagSet formats the tags for a track. Artist and album artist are
// always identical.
func NewTagSet(t *model.Track) TagSet {
	return TagSet{
		Title:       t.Title,
		Track:       FormatNumber(t.Number, t.Total),
		Disc:        FormatNumber(1, 1),
		Album:       t.Album,
		Artist:      t.Artist,
		AlbumArtist: t.Artist,
		Date:        t.Year,
	}
}

// FormatNumber renders a position within a set: "N", "N/total", or
// "/total" when only the total is known.
func FormatNumber(n, total int) string {
	switch {
	case n > 0 && total > 0:
		return fmt.Sprintf("%d/%d", n, total)
	case n > 0:
		return strconv.Itoa(n)
	case total > 0:
		return fmt.Sprintf("/%d", total)
	default:
		return ""
	}
}

// Fields returns the non-empty tags in a fixed order using ffmpeg's
// generic metadata keys.
func (s TagSet) Fields() []Field {
	all := []Field{
		{"title", s.Title},
		{"track", s.Track},
		{"disc", s.Disc},
		{"album", s.Album},
		{"artist", s.Artist},
		{"album_artist", s.AlbumArtist},
		{"date", s.Date},
	}
	fields := all[:0]
	for _, f := range all {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// TagError reports a failed tag write. The exported audio is left in place.
type TagError struct {
	Track int
	Path  string
	Err   error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag track %d (%s): %v", e.Track, e.Path, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}
