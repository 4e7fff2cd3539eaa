package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/splitaudio/internal/model"
)

// PlaylistCreator generates playlist files for the tracks of a split run.
//
// Track paths in the playlist are relative (just the filename), assuming
// the playlist file is written to the output directory next to the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album)
//	os.WriteFile(album.PlaylistPath, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:90,Artist - Intro
//	// 01. Intro.flac
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for an album.
func (p *PlaylistCreator) CreatePlaylist(album *model.Album) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(album)
	case model.PlaylistFormatWPL:
		return p.createWPL(album)
	case model.PlaylistFormatZPL:
		return p.createZPL(album)
	default:
		return p.createM3U(album)
	}
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:90,Artist - Title
//	01. Title.flac
func (p *PlaylistCreator) createM3U(album *model.Album) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, track := range album.Tracks {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", seconds(track), displayName(album, track)))
		}
		sb.WriteString(filepath.Base(track.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=01. Intro.flac
//	Title1=Intro
//	Length1=90
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(album *model.Album) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range album.Tracks {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(track.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, track.Title))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, seconds(track)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(album.Tracks)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
func (p *PlaylistCreator) createWPL(album *model.Album) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(album.Title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range album.Tracks {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(filepath.Base(track.Path))))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist with per-track metadata.
func (p *PlaylistCreator) createZPL(album *model.Album) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(album.Title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"splitaudio\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(album.Tracks)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, track := range album.Tracks {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(filepath.Base(track.Path)),
			escapeXML(track.Album),
			escapeXML(album.Artist),
			escapeXML(track.Title),
			escapeXML(track.Artist),
			track.Duration().Milliseconds()))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

func seconds(track *model.Track) int {
	return int(track.Duration().Seconds())
}

func displayName(album *model.Album, track *model.Track) string {
	artist := track.Artist
	if artist == "" {
		artist = album.Artist
	}
	if artist == "" {
		return track.Title
	}
	return artist + " - " + track.Title
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
