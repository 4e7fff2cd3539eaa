package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/handiism/splitaudio/internal/audio"
	"github.com/handiism/splitaudio/internal/model"
)

// Extractor exports one track of a source to track.Path.
type Extractor interface {
	Extract(ctx context.Context, src *Source, track *model.Track, tags []audio.Field) error
}

// EncodeError reports a failed export. Stderr holds the encoder's
// diagnostic output.
type EncodeError struct {
	Track  int
	Path   string
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	if msg := lastLine(e.Stderr); msg != "" {
		return fmt.Sprintf("encode track %d (%s): %v: %s", e.Track, e.Path, e.Err, msg)
	}
	return fmt.Sprintf("encode track %d (%s): %v", e.Track, e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// FFmpeg is an Extractor backed by the ffmpeg binary.
type FFmpeg struct {
	// Path is the ffmpeg executable. Empty means "ffmpeg" on $PATH.
	Path string
}

// NewFFmpeg creates an extractor for the given executable path.
func NewFFmpeg(path string) *FFmpeg {
	return &FFmpeg{Path: path}
}

func (f *FFmpeg) binary() string {
	if f.Path == "" {
		return "ffmpeg"
	}
	return f.Path
}

// Extract runs ffmpeg for one track and waits for it to exit.
func (f *FFmpeg) Extract(ctx context.Context, src *Source, track *model.Track, tags []audio.Field) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary(), buildArgs(src, track, tags)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &EncodeError{
			Track:  track.Number,
			Path:   track.Path,
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return nil
}

// buildArgs assembles the ffmpeg command line for one track.
//
//	ffmpeg -hide_banner -nostdin -loglevel error -y [-ss S] -i SRC -t D
//	       -map 0:a -map_metadata -1 [-metadata k=v ...] OUT
func buildArgs(src *Source, track *model.Track, tags []audio.Field) []string {
	start := track.Start.Truncate(time.Millisecond)
	end := track.End.Truncate(time.Millisecond)

	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}
	if start > 0 {
		args = append(args, "-ss", seconds(start))
	}
	args = append(args,
		"-i", src.Path,
		"-t", seconds(end-start),
		"-map", "0:a",
		"-map_metadata", "-1",
	)
	for _, field := range tags {
		args = append(args, "-metadata", field.Key+"="+field.Value)
	}
	return append(args, track.Path)
}

// seconds renders d as ffmpeg's "S.mmm" duration syntax.
func seconds(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
