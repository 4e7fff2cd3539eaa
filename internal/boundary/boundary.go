// Package boundary turns the ordered track-start markers into contiguous,
// validated track ranges.
//
// Each marker starts a track. The track ends where the next marker starts,
// and the last track ends at the source duration reported by the probe:
//
//	markers: Intro 0:00, Song A 1:30, Song B 4:05   total: 6:00
//	tracks:  1 [0:00,1:30)  2 [1:30,4:05)  3 [4:05,6:00)
//
// Build is a pure function of its inputs and performs no I/O.
package boundary

import (
	"fmt"
	"time"

	"github.com/handiism/splitaudio/internal/model"
	"github.com/handiism/splitaudio/internal/timecode"
)

// BoundaryError reports a track whose range is empty or inverted, usually
// because markers are out of order or a marker lies at or past the end of
// the source.
type BoundaryError struct {
	// Track is the 1-based track number.
	Track int
	Title string
	Start time.Duration
	End   time.Duration
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("track %d (%q): start %s is not before end %s",
		e.Track, e.Title, timecode.Clock(e.Start), timecode.Clock(e.End))
}

// MarkerError wraps a position that could not be parsed with the marker
// it came from.
type MarkerError struct {
	Track int
	Line  int
	Title string
	Err   error
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("track %d (%q, line %d): %v", e.Track, e.Title, e.Line, e.Err)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}

// Build computes one track per marker.
//
// Parameters:
//   - album: The run context; its Path is the output directory
//   - markers: Track list rows in input order, defaults already applied
//   - total: Source duration from the probe
//   - ext: Output extension for every track
//   - cfg: File naming configuration
//
// Zero markers produce zero tracks. Every position is parsed before any
// range is checked, so a malformed marker anywhere fails the whole run.
func Build(album *model.Album, markers []model.Marker, total time.Duration, ext string, cfg *model.TrackConfig) ([]*model.Track, error) {
	starts := make([]time.Duration, len(markers))
	for i, m := range markers {
		d, err := timecode.Parse(m.Position)
		if err != nil {
			return nil, &MarkerError{Track: i + 1, Line: m.Line, Title: m.Title, Err: err}
		}
		starts[i] = d
	}

	tracks := make([]*model.Track, 0, len(markers))
	for i, m := range markers {
		end := total
		if i+1 < len(markers) {
			end = starts[i+1]
		}
		if starts[i] >= end {
			return nil, &BoundaryError{Track: i + 1, Title: m.Title, Start: starts[i], End: end}
		}
		tracks = append(tracks, model.NewTrack(album, i+1, len(markers), m, starts[i], end, ext, cfg))
	}

	return tracks, nil
}

// Validate checks the invariants Build guarantees: consecutive numbering,
// non-empty contiguous ranges and a last track ending at total.
func Validate(tracks []*model.Track, total time.Duration) error {
	for i, t := range tracks {
		if t.Number != i+1 || t.Total != len(tracks) {
			return fmt.Errorf("track %d: numbered %d/%d, want %d/%d", i+1, t.Number, t.Total, i+1, len(tracks))
		}
		if t.Start >= t.End {
			return &BoundaryError{Track: t.Number, Title: t.Title, Start: t.Start, End: t.End}
		}
		if i+1 < len(tracks) && t.End != tracks[i+1].Start {
			return fmt.Errorf("track %d: ends at %s but track %d starts at %s",
				t.Number, timecode.Clock(t.End), t.Number+1, timecode.Clock(tracks[i+1].Start))
		}
	}
	if n := len(tracks); n > 0 && tracks[n-1].End != total {
		return fmt.Errorf("last track ends at %s, source is %s", timecode.Clock(tracks[n-1].End), timecode.Clock(total))
	}
	return nil
}
