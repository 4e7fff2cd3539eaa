package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Track is one validated, contiguous range of the source recording assigned
// to exactly one output file.
//
// Tracks are created by the boundary builder and are read-only afterwards.
// Invariants:
//   - Start < End
//   - End of track N equals Start of track N+1
//   - End of the last track equals the source duration
//   - Total equals the number of markers; Number is 1-based
//
// Example:
//
//	cfg := &TrackConfig{FileNameFormat: "{tracknum}. {title}"}
//	track := NewTrack(album, 1, 3, marker, 0, 90*time.Second, "flac", cfg)
//	// track.Path = "/music/Artist/Album/01. Intro.flac"
type Track struct {
	// Number is the track number (1-indexed, input order).
	Number int

	// Total is the number of tracks in the run.
	Total int

	// Start is the offset of the first sample from the beginning of the source.
	Start time.Duration

	// End is the exclusive end offset.
	End time.Duration

	// Title is the track title as given in the track list, unsanitised.
	Title string

	// Album, Artist and Year are the effective values after per-row
	// overrides were applied. Empty means the tag is omitted.
	Album  string
	Artist string
	Year   string

	// Extension is the output container extension without the dot.
	Extension string

	// Path is the computed output file path.
	Path string
}

// TrackConfig holds track path formatting settings.
//
// The FileNameFormat supports placeholders that are replaced with actual values:
//   - {tracknum} - Track number (2 digits, zero-padded)
//   - {title} - Track title
//   - {artist} - Track artist
//   - {album} - Album title
//   - {year} - Release year
//
// The extension is appended after sanitising, so it must not be part of
// the format.
type TrackConfig struct {
	// FileNameFormat is the template for track filenames without extension.
	FileNameFormat string
}

// DefaultFileNameFormat produces "01. Title".
const DefaultFileNameFormat = "{tracknum}. {title}"

// NewTrack creates a new Track with computed path.
//
// Parameters:
//   - album: The run context (provides the output directory)
//   - number: Track number (1-indexed)
//   - total: Number of tracks in the run
//   - marker: The marker the track starts at, with defaults already applied
//   - start, end: The half-open range [start, end) of the source
//   - ext: Output extension without the dot
//   - cfg: Configuration for file naming
func NewTrack(album *Album, number, total int, marker Marker, start, end time.Duration, ext string, cfg *TrackConfig) *Track {
	track := &Track{
		Number:    number,
		Total:     total,
		Start:     start,
		End:       end,
		Title:     marker.Title,
		Album:     marker.Album,
		Artist:    marker.Artist,
		Year:      marker.Year,
		Extension: strings.TrimPrefix(ext, "."),
	}

	track.Path = track.parseFilePath(album.Path, cfg)

	return track
}

// Duration returns the length of the track.
func (t *Track) Duration() time.Duration {
	return t.End - t.Start
}

// FileName returns the base name of the output file.
func (t *Track) FileName() string {
	return filepath.Base(t.Path)
}

// parseFilePath computes the full file path for this track.
func (t *Track) parseFilePath(dir string, cfg *TrackConfig) string {
	fileName := t.parseFileName(cfg)
	ext := "." + t.Extension
	filePath := filepath.Join(dir, fileName+ext)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(dir, truncateUTF8(fileName, maxLen)+ext)
		}
	}

	return filePath
}

// parseFileName computes the filename (without extension) from the config template.
func (t *Track) parseFileName(cfg *TrackConfig) string {
	format := DefaultFileNameFormat
	if cfg != nil && cfg.FileNameFormat != "" {
		format = cfg.FileNameFormat
	}
	fileName := format
	fileName = strings.ReplaceAll(fileName, "{year}", t.Year)
	fileName = strings.ReplaceAll(fileName, "{album}", t.Album)
	fileName = strings.ReplaceAll(fileName, "{artist}", t.Artist)
	fileName = strings.ReplaceAll(fileName, "{title}", t.Title)
	fileName = strings.ReplaceAll(fileName, "{tracknum}", fmt.Sprintf("%02d", t.Number))
	return sanitizeFileName(fileName)
}
