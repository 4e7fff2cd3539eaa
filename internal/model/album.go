package model

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Album represents one split run: the recording being cut into tracks and
// the metadata shared by its tracks.
//
// Album contains all the information needed to name and tag output files:
//   - Artist, Title and Year as run-level defaults for every track
//   - Computed paths for the output directory and playlist
//
// Paths are automatically computed when creating an album via NewAlbum,
// using placeholders like {artist}, {album} and {year}.
//
// Example:
//
//	cfg := &PathConfig{
//	    OutputPath:             "/music/{artist}/{album}",
//	    PlaylistFileNameFormat: "{album}",
//	    PlaylistFormat:         PlaylistFormatM3U,
//	}
//	album := NewAlbum("The Beatles", "Abbey Road", "1969", cfg)
//	// album.Path = "/music/The Beatles/Abbey Road"
type Album struct {
	// Artist is the default artist for every track.
	Artist string

	// Title is the default album title for every track.
	Title string

	// Year is the default release year. Kept as text because it is only
	// ever written into tags.
	Year string

	// Tracks contains the tracks cut from the source, in track-number order.
	Tracks []*Track

	// Path is the computed output directory for split tracks.
	Path string

	// PlaylistPath is the computed local file path for the playlist file.
	PlaylistPath string
}

// NewAlbum creates a new Album with computed paths based on settings.
//
// The pathConfig determines how paths are constructed using placeholders:
//   - {artist} - Artist name
//   - {album} - Album title
//   - {year} - Release year
//
// Invalid filename characters in substituted values are replaced with
// underscores. Paths are truncated if they exceed Windows path length limits
// (248 for folders, 260 for files).
func NewAlbum(artist, title, year string, cfg *PathConfig) *Album {
	album := &Album{
		Artist: artist,
		Title:  title,
		Year:   year,
	}

	album.Path = album.parseFolderPath(cfg)
	album.PlaylistPath = album.parsePlaylistPath(cfg)

	return album
}

// Defaults returns the album metadata as per-track defaults.
func (a *Album) Defaults() Defaults {
	return Defaults{Album: a.Title, Artist: a.Artist, Year: a.Year}
}

// PathConfig holds path formatting settings for a split run.
//
// Example configuration:
//
//	cfg := &PathConfig{
//	    OutputPath:             "/home/user/Music/{artist}/{album}",
//	    PlaylistFileNameFormat: "{album}",
//	    PlaylistFormat:         PlaylistFormatM3U,
//	}
type PathConfig struct {
	// OutputPath is the output directory template.
	// Example: "/music/{artist}/{album}"
	OutputPath string

	// PlaylistFileNameFormat is the filename template for playlists (without extension).
	// Example: "{album}"
	PlaylistFileNameFormat string

	// PlaylistFormat determines the playlist file type and extension.
	PlaylistFormat PlaylistFormat
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS

	// PlaylistFormatWPL creates .wpl playlist files (Windows Media Player).
	PlaylistFormatWPL

	// PlaylistFormatZPL creates .zpl playlist files (Zune Media Player).
	PlaylistFormatZPL
)

// ParsePlaylistFormat maps a settings value ("m3u", "pls", "wpl", "zpl")
// to a PlaylistFormat. Unknown values fall back to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pls":
		return PlaylistFormatPLS
	case "wpl":
		return PlaylistFormatWPL
	case "zpl":
		return PlaylistFormatZPL
	default:
		return PlaylistFormatM3U
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatM3U:
		return ".m3u"
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// parseFolderPath computes the output folder path from the config template.
func (a *Album) parseFolderPath(cfg *PathConfig) string {
	path := cfg.OutputPath
	path = strings.ReplaceAll(path, "{year}", sanitizeFileName(a.Year))
	path = strings.ReplaceAll(path, "{artist}", sanitizeFileName(a.Artist))
	path = strings.ReplaceAll(path, "{album}", sanitizeFileName(a.Title))

	// Limit path length for cross-platform compatibility (Windows MAX_PATH)
	if len(path) >= 248 {
		path = truncateUTF8(path, 247)
	}

	return filepath.Clean(path)
}

// parsePlaylistPath computes the full playlist file path.
func (a *Album) parsePlaylistPath(cfg *PathConfig) string {
	fileName := a.parsePlaylistFileName(cfg)
	if fileName == "" {
		fileName = "playlist"
	}
	ext := cfg.PlaylistFormat.Extension()
	filePath := filepath.Join(a.Path, fileName+ext)

	if len(filePath) >= 260 {
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(a.Path, truncateUTF8(fileName, maxLen)+ext)
		}
	}

	return filePath
}

// parsePlaylistFileName computes the playlist filename from the config template.
func (a *Album) parsePlaylistFileName(cfg *PathConfig) string {
	fileName := cfg.PlaylistFileNameFormat
	fileName = strings.ReplaceAll(fileName, "{year}", a.Year)
	fileName = strings.ReplaceAll(fileName, "{album}", a.Title)
	fileName = strings.ReplaceAll(fileName, "{artist}", a.Artist)
	return sanitizeFileName(fileName)
}

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")
	return name
}

// truncateUTF8 shortens s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
