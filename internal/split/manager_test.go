package split

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/handiism/splitaudio/internal/audio"
	"github.com/handiism/splitaudio/internal/config"
	"github.com/handiism/splitaudio/internal/ffmpeg"
	"github.com/handiism/splitaudio/internal/model"
	"github.com/handiism/splitaudio/internal/timecode"
)

type fakeProber struct {
	d time.Duration
}

func (p fakeProber) Duration(context.Context, string) (time.Duration, error) {
	return p.d, nil
}

type extractCall struct {
	track  int
	fields []audio.Field
}

// fakeExtractor writes a small MPEG-looking payload instead of running
// ffmpeg. It fails on failOn when set and prefixes track oldTagOn with an
// ID3v2.2 header the tagger cannot rewrite.
type fakeExtractor struct {
	mu       sync.Mutex
	calls    []extractCall
	failOn   int
	oldTagOn int
}

func (e *fakeExtractor) Extract(_ context.Context, _ *ffmpeg.Source, track *model.Track, fields []audio.Field) error {
	e.mu.Lock()
	e.calls = append(e.calls, extractCall{track: track.Number, fields: fields})
	e.mu.Unlock()

	if track.Number == e.failOn {
		return errors.New("exit status 1")
	}
	payload := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 512)...)
	if track.Number == e.oldTagOn {
		payload = append([]byte("ID3\x02\x00\x00\x00\x00\x00\x00"), payload...)
	}
	return os.WriteFile(track.Path, payload, 0644)
}

func (e *fakeExtractor) tracks() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []int
	for _, c := range e.calls {
		out = append(out, c.track)
	}
	return out
}

const threeTracks = "title,position\nIntro,0:00\nSong A,1:30\nSong B,4:05\n"

func newTestSettings(t *testing.T, csv, input string) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	listPath := filepath.Join(dir, "tracks.csv")
	if err := os.WriteFile(listPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	s := config.DefaultSettings()
	s.InputPath = filepath.Join(dir, input)
	s.TrackListPath = listPath
	s.OutputPath = filepath.Join(dir, "out")
	s.Artist = "Band"
	s.Album = "Live"
	s.Year = "1999"
	return s
}

type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) record(e ProgressEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) messages(level ProgressLevel) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestManager_RunFLACInline(t *testing.T) {
	s := newTestSettings(t, threeTracks, "live.wav")
	s.CreatePlaylist = true
	extractor := &fakeExtractor{}

	m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got := extractor.tracks(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("extracted tracks %v, want [1 2 3]", got)
	}
	first := extractor.calls[0].fields
	if len(first) == 0 || first[0].Key != "title" || first[0].Value != "Intro" {
		t.Errorf("inline fields for track 1 = %+v", first)
	}

	for _, name := range []string{"01. Intro.flac", "02. Song A.flac", "03. Song B.flac", "Live.m3u"} {
		if _, err := os.Stat(filepath.Join(s.OutputPath, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	done, total := m.GetProgress()
	if done != 3 || total != 3 {
		t.Errorf("GetProgress() = %d/%d, want 3/3", done, total)
	}
}

func TestManager_RunMP3PostHoc(t *testing.T) {
	s := newTestSettings(t, threeTracks, "live.mp3")
	extractor := &fakeExtractor{}

	m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, c := range extractor.calls {
		if c.fields != nil {
			t.Errorf("track %d got inline fields %+v, want none for post-hoc tagging", c.track, c.fields)
		}
	}

	got, err := audio.Inspect(filepath.Join(s.OutputPath, "02. Song A.mp3"))
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	want := audio.TagSet{Title: "Song A", Track: "2/3", Disc: "1/1", Album: "Live", Artist: "Band", AlbumArtist: "Band", Date: "1999"}
	if got != want {
		t.Errorf("tags = %+v, want %+v", got, want)
	}
}

func TestManager_DryRunMatchesRealRun(t *testing.T) {
	plan := func(dryRun bool) ([]*model.Track, []string, *fakeExtractor, string) {
		s := newTestSettings(t, threeTracks, "live.wav")
		s.DryRun = dryRun
		rec := &recorder{}
		extractor := &fakeExtractor{}

		m := NewManager(s, rec.record, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
		if err := m.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize() error: %v", err)
		}
		info := rec.messages(LevelInfo)
		if err := m.Run(context.Background()); err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		return m.Tracks(), info, extractor, s.OutputPath
	}

	dryTracks, dryInfo, dryExtractor, dryOut := plan(true)
	realTracks, realInfo, _, _ := plan(false)

	if len(dryTracks) != len(realTracks) {
		t.Fatalf("dry run planned %d tracks, real run %d", len(dryTracks), len(realTracks))
	}
	for i := range dryTracks {
		d, r := dryTracks[i], realTracks[i]
		if d.Number != r.Number || d.Title != r.Title || d.Start != r.Start || d.End != r.End || d.FileName() != r.FileName() {
			t.Errorf("track %d differs: dry %+v, real %+v", i+1, d, r)
		}
	}

	// Source paths differ between the two temp dirs; compare the per-track lines.
	trackLines := func(msgs []string) []string {
		var out []string
		for _, msg := range msgs {
			if strings.Contains(msg, " -> ") {
				out = append(out, msg)
			}
		}
		return out
	}
	if strings.Join(trackLines(dryInfo), "\n") != strings.Join(trackLines(realInfo), "\n") {
		t.Errorf("plan output differs:\ndry:\n%s\nreal:\n%s", strings.Join(dryInfo, "\n"), strings.Join(realInfo, "\n"))
	}

	if len(dryExtractor.tracks()) != 0 {
		t.Errorf("dry run extracted %v", dryExtractor.tracks())
	}
	if _, err := os.Stat(dryOut); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", dryOut)
	}
}

func TestManager_AbortsOnFirstError(t *testing.T) {
	s := newTestSettings(t, threeTracks, "live.flac")
	extractor := &fakeExtractor{failOn: 2}

	m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	err := m.Run(context.Background())

	var encErr *ffmpeg.EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("Run() error = %v, want *ffmpeg.EncodeError", err)
	}
	if encErr.Track != 2 {
		t.Errorf("EncodeError.Track = %d, want 2", encErr.Track)
	}
	if got := extractor.tracks(); len(got) != 2 {
		t.Errorf("extracted tracks %v, want [1 2]", got)
	}
	written := m.Written()
	if len(written) != 1 || filepath.Base(written[0]) != "01. Intro.flac" {
		t.Errorf("Written() = %v, want only track 1", written)
	}
}

func TestManager_TagFailureStopsRun(t *testing.T) {
	s := newTestSettings(t, threeTracks, "live.mp3")
	extractor := &fakeExtractor{oldTagOn: 2}

	m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	err := m.Run(context.Background())

	var tagErr *audio.TagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("Run() error = %v, want *audio.TagError", err)
	}
	if tagErr.Track != 2 {
		t.Errorf("TagError.Track = %d, want 2", tagErr.Track)
	}
	if got := extractor.tracks(); len(got) != 2 || got[1] != 2 {
		t.Errorf("extracted tracks %v, want [1 2]", got)
	}

	written := m.Written()
	if len(written) != 2 || filepath.Base(written[1]) != "02. Song A.mp3" {
		t.Errorf("Written() = %v, want tracks 1 and 2", written)
	}
	if _, err := os.Stat(filepath.Join(s.OutputPath, "02. Song A.mp3")); err != nil {
		t.Errorf("untagged track 2 should stay on disk: %v", err)
	}
	if done, _ := m.GetProgress(); done != 1 {
		t.Errorf("GetProgress() done = %d, want 1", done)
	}
}

func TestManager_RunRechecksTracks(t *testing.T) {
	for _, dryRun := range []bool{true, false} {
		s := newTestSettings(t, threeTracks, "live.wav")
		s.DryRun = dryRun
		extractor := &fakeExtractor{}

		m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
		if err := m.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize() error: %v", err)
		}
		m.Tracks()[1].End = 5 * time.Minute

		if err := m.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "track 2") {
			t.Errorf("dryRun=%v: Run() error = %v, want a track 2 error", dryRun, err)
		}
		if len(extractor.tracks()) != 0 {
			t.Errorf("dryRun=%v: extracted %v", dryRun, extractor.tracks())
		}
	}
}

func TestManager_InitializeErrors(t *testing.T) {
	tests := []struct {
		name  string
		csv   string
		check func(error) bool
	}{
		{"bad timecode", "title,position\nIntro,0:00\nBad,abc\n", func(err error) bool {
			var perr *timecode.ParseError
			return errors.As(err, &perr)
		}},
		{"missing column", "title,start\nIntro,0:00\n", func(err error) bool {
			return strings.Contains(err.Error(), "position")
		}},
		{"marker past end", "title,position\nIntro,0:00\nLate,7:00\n", func(err error) bool {
			return strings.Contains(err.Error(), "track 2")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSettings(t, tt.csv, "live.wav")
			extractor := &fakeExtractor{}

			m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
			err := m.Initialize(context.Background())
			if err == nil || !tt.check(err) {
				t.Fatalf("Initialize() error = %v", err)
			}
			if !errors.Is(m.Run(context.Background()), ErrNotInitialized) {
				t.Error("Run() after failed Initialize should report ErrNotInitialized")
			}
			if len(extractor.tracks()) != 0 {
				t.Error("no track should be extracted")
			}
			if _, err := os.Stat(s.OutputPath); !os.IsNotExist(err) {
				t.Errorf("output directory was created")
			}
		})
	}
}

func TestManager_ZeroMarkers(t *testing.T) {
	s := newTestSettings(t, "title,position\n", "live.wav")
	extractor := &fakeExtractor{}
	rec := &recorder{}

	m := NewManager(s, rec.record, WithProber(fakeProber{time.Minute}), WithExtractor(extractor))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(m.Tracks()) != 0 || len(extractor.tracks()) != 0 {
		t.Errorf("expected no tracks and no extraction")
	}
	if len(rec.messages(LevelWarning)) != 1 {
		t.Errorf("warnings = %v, want one", rec.messages(LevelWarning))
	}
}

func TestManager_CancelledContext(t *testing.T) {
	s := newTestSettings(t, threeTracks, "live.wav")
	extractor := &fakeExtractor{}

	m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(extractor))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(extractor.tracks()) != 0 {
		t.Errorf("extracted %v after cancellation", extractor.tracks())
	}
}

func TestManager_OutputFormatOverride(t *testing.T) {
	s := newTestSettings(t, threeTracks, "live.wav")
	s.OutputFormat = ".OPUS"

	m := NewManager(s, nil, WithProber(fakeProber{6 * time.Minute}), WithExtractor(&fakeExtractor{}))
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if got := m.Tracks()[0].FileName(); got != "01. Intro.opus" {
		t.Errorf("FileName() = %q, want %q", got, "01. Intro.opus")
	}
}
