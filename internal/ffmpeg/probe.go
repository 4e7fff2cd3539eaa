package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/handiism/splitaudio/internal/audio"
	"github.com/handiism/splitaudio/internal/timecode"
)

// Prober reports the total duration of an audio file.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// FFprobe is a Prober backed by the ffprobe binary.
type FFprobe struct {
	// Path is the ffprobe executable. Empty means "ffprobe" on $PATH.
	Path string
}

// NewFFprobe creates a prober for the given executable path.
func NewFFprobe(path string) *FFprobe {
	return &FFprobe{Path: path}
}

func (p *FFprobe) binary() string {
	if p.Path == "" {
		return "ffprobe"
	}
	return p.Path
}

// Duration runs ffprobe with sexagesimal output and parses the result.
func (p *FFprobe) Duration(ctx context.Context, path string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-sexagesimal",
		path,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.binary(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, msg)
		}
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	return parseProbeOutput(stdout.String())
}

// parseProbeOutput reads the first non-empty line of ffprobe's output,
// e.g. "0:06:00.000000".
func parseProbeOutput(out string) (time.Duration, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "N/A" {
			return 0, fmt.Errorf("ffprobe reported no duration")
		}
		d, err := timecode.Parse(line)
		if err != nil {
			return 0, fmt.Errorf("parse ffprobe duration: %w", err)
		}
		return d, nil
	}
	return 0, fmt.Errorf("ffprobe returned no output")
}

// Source is the read-only handle on the audio being split.
type Source struct {
	Path     string
	Format   string // lower-case input extension, without the dot
	Duration time.Duration
}

// Open probes path once and returns its handle.
func Open(ctx context.Context, prober Prober, path string) (*Source, error) {
	d, err := prober.Duration(ctx, path)
	if err != nil {
		return nil, err
	}
	if d <= 0 {
		return nil, fmt.Errorf("source %s has no playable duration", path)
	}
	return &Source{
		Path:     path,
		Format:   audio.SourceExtension(path),
		Duration: d,
	}, nil
}
