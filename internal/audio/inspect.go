package audio

import (
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// Inspect reads the tags of a finished file back into a TagSet, using the
// same formatting rules as NewTagSet. It understands ID3, MP4 and FLAC/Ogg
// Vorbis comments.
func Inspect(path string) (TagSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return TagSet{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return TagSet{}, err
	}

	track, trackTotal := m.Track()
	disc, discTotal := m.Disc()

	set := TagSet{
		Title:       m.Title(),
		Track:       FormatNumber(track, trackTotal),
		Disc:        FormatNumber(disc, discTotal),
		Album:       m.Album(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
	}
	if year := m.Year(); year > 0 {
		set.Date = strconv.Itoa(year)
	}
	return set, nil
}
