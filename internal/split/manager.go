package split

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/handiism/splitaudio/internal/audio"
	"github.com/handiism/splitaudio/internal/boundary"
	"github.com/handiism/splitaudio/internal/config"
	"github.com/handiism/splitaudio/internal/ffmpeg"
	"github.com/handiism/splitaudio/internal/http"
	ioutils "github.com/handiism/splitaudio/internal/io"
	"github.com/handiism/splitaudio/internal/model"
	"github.com/handiism/splitaudio/internal/timecode"
	"github.com/handiism/splitaudio/internal/tracklist"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a split progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrNotInitialized is returned by Run before a successful Initialize.
var ErrNotInitialized = errors.New("split: manager not initialized")

// Option customises a Manager.
type Option func(*Manager)

// WithProber replaces the ffprobe-backed duration probe.
func WithProber(p ffmpeg.Prober) Option {
	return func(m *Manager) { m.prober = p }
}

// WithExtractor replaces the ffmpeg-backed extractor.
func WithExtractor(e ffmpeg.Extractor) Option {
	return func(m *Manager) { m.extractor = e }
}

// WithHTTPClient replaces the client used to fetch cover art URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// Manager coordinates one split run.
type Manager struct {
	settings     *config.Settings
	prober       ffmpeg.Prober
	extractor    ffmpeg.Extractor
	httpClient   *http.Client
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	source    *ffmpeg.Source
	album     *model.Album
	extension string

	totalFiles int32
	splitFiles int32
	written    []string

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new split Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		settings:     settings,
		prober:       ffmpeg.NewFFprobe(settings.FFprobePath),
		extractor:    ffmpeg.NewFFmpeg(settings.FFmpegPath),
		httpClient:   http.NewClient(),
		tagger:       audio.NewTagger(settings.ToTagConfig()),
		playlist:     audio.NewPlaylistCreator(model.ParsePlaylistFormat(settings.PlaylistFormat), settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize reads the track list, probes the source and computes every
// track's boundaries and output path. Nothing is written.
//
// The same plan is reported for dry and real runs.
func (m *Manager) Initialize(ctx context.Context) error {
	if err := m.settings.Validate(); err != nil {
		return err
	}

	album := model.NewAlbum(m.settings.Artist, m.settings.Album, m.settings.Year, m.settings.ToPathConfig())

	m.progress(ProgressEvent{Message: fmt.Sprintf("Reading track list: %s", m.settings.TrackListPath), Level: LevelVerbose})
	result, err := tracklist.ReadFile(m.settings.TrackListPath, album.Defaults())
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Track list: %d markers, %s delimited, columns %s", len(result.Markers), result.Dialect, strings.Join(result.Columns, ", ")), Level: LevelVerbose})

	source, err := ffmpeg.Open(ctx, m.prober, m.settings.InputPath)
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Source: %s (%s, %s)", source.Path, source.Format, timecode.Clock(source.Duration)), Level: LevelInfo})

	ext := m.outputExtension(source)
	tracks, err := boundary.Build(album, result.Markers, source.Duration, ext, m.settings.ToTrackConfig())
	if err != nil {
		return err
	}
	album.Tracks = tracks

	m.mu.Lock()
	m.source = source
	m.album = album
	m.extension = ext
	m.written = nil
	m.mu.Unlock()
	atomic.StoreInt32(&m.totalFiles, int32(len(tracks)))
	atomic.StoreInt32(&m.splitFiles, 0)

	if len(tracks) == 0 {
		m.progress(ProgressEvent{Message: "Track list has no markers, nothing to split", Level: LevelWarning})
		return nil
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d tracks, writing %s files to %s", len(tracks), ext, album.Path), Level: LevelInfo})
	for _, track := range tracks {
		m.progress(ProgressEvent{Message: describe(track), Level: LevelInfo})
	}

	return nil
}

// outputExtension applies the configured override, or the substitution
// table for the source's container.
func (m *Manager) outputExtension(source *ffmpeg.Source) string {
	if f := strings.ToLower(strings.TrimPrefix(m.settings.OutputFormat, ".")); f != "" {
		return f
	}
	return audio.OutputExtension(source.Format)
}

// Run exports, tags and lists every initialized track in track-number
// order. The first failure stops the run; files already written stay on
// disk and are reported by Written.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.RLock()
	album, source := m.album, m.source
	m.mu.RUnlock()

	if album == nil {
		return ErrNotInitialized
	}
	if len(album.Tracks) == 0 {
		return nil
	}

	// Tracks hands out the planned tracks; dry and real runs recheck them.
	if err := boundary.Validate(album.Tracks, source.Duration); err != nil {
		return err
	}

	if m.settings.DryRun {
		for _, track := range album.Tracks {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Dry run, skipping: %s", track.FileName()), Level: LevelVerbose})
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Dry run complete: %d tracks planned, nothing written", len(album.Tracks)), Level: LevelSuccess})
		return nil
	}

	if err := ioutils.EnsureDir(album.Path); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return err
	}

	strategy := m.tagger.StrategyFor(m.extension)
	if m.settings.CoverArt != "" {
		if strategy.Inline() {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cover art is only embedded by post-hoc tagging, not in %s files", m.extension), Level: LevelWarning})
		} else if artwork, err := m.loadArtwork(ctx); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error loading cover art: %v", err), Level: LevelWarning})
		} else {
			m.tagger.SetArtwork(artwork)
			strategy = m.tagger.StrategyFor(m.extension)
		}
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Tagging strategy: %s", strategy.Name()), Level: LevelVerbose})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentTracks)

	for _, track := range album.Tracks {
		if gctx.Err() != nil {
			break
		}
		track := track
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return m.splitTrack(gctx, strategy, track)
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Split failed: %v", err), Level: LevelError})
		if written := m.Written(); len(written) > 0 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("%d files were written before the failure and left in place", len(written)), Level: LevelWarning})
		}
		return err
	}

	if m.settings.CreatePlaylist {
		content := m.playlist.CreatePlaylist(album)
		if err := ioutils.WriteFile(ctx, album.PlaylistPath, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist: %s", album.PlaylistPath), Level: LevelSuccess})
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully split %d tracks into %s", len(album.Tracks), album.Path), Level: LevelSuccess})
	return nil
}

func (m *Manager) splitTrack(ctx context.Context, strategy audio.Strategy, track *model.Track) error {
	tags := audio.NewTagSet(track)

	var fields []audio.Field
	if strategy.Inline() {
		fields = tags.Fields()
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Splitting: %s", track.FileName()), Level: LevelVerbose})
	if err := m.extractor.Extract(ctx, m.source, track, fields); err != nil {
		var encErr *ffmpeg.EncodeError
		if !errors.As(err, &encErr) {
			err = &ffmpeg.EncodeError{Track: track.Number, Path: track.Path, Err: err}
		}
		return err
	}
	m.markWritten(track.Path)

	if err := strategy.Apply(track.Path, tags); err != nil {
		return &audio.TagError{Track: track.Number, Path: track.Path, Err: err}
	}

	if m.settings.Verbose {
		if got, err := audio.Inspect(track.Path); err == nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Tags: %s | %s | %s | track %s | %s", got.Artist, got.Album, got.Title, got.Track, got.Date), Level: LevelVerbose})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Could not read back tags of %s: %v", track.FileName(), err), Level: LevelVerbose})
		}
	}

	atomic.AddInt32(&m.splitFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Wrote: %s", track.FileName()), Level: LevelInfo})
	return nil
}

// loadArtwork reads the configured cover from disk or over HTTP and
// prepares it for embedding.
func (m *Manager) loadArtwork(ctx context.Context) ([]byte, error) {
	ref := m.settings.CoverArt

	var artwork []byte
	var err error
	if http.IsURL(ref) {
		artwork, err = m.httpClient.DownloadBytes(ctx, ref)
	} else {
		artwork, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, err
	}

	if m.settings.CoverArtInTagsResize {
		artwork, err = m.imageService.ResizeImage(ctx, artwork, m.settings.CoverArtInTagsMaxSize, m.settings.CoverArtInTagsMaxSize)
	} else if m.settings.ConvertCoverArtToJPG {
		artwork, err = m.imageService.ConvertToJPEG(ctx, artwork)
	}
	if err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Loaded cover art: %s", ref), Level: LevelVerbose})
	return artwork, nil
}

func (m *Manager) markWritten(path string) {
	m.mu.Lock()
	m.written = append(m.written, path)
	m.mu.Unlock()
}

// GetProgress returns the number of finished tracks and the track total.
func (m *Manager) GetProgress() (filesSplit, filesTotal int32) {
	return atomic.LoadInt32(&m.splitFiles), atomic.LoadInt32(&m.totalFiles)
}

// Tracks returns the planned tracks in track-number order.
func (m *Manager) Tracks() []*model.Track {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.album == nil {
		return nil
	}
	return m.album.Tracks
}

// Album returns the initialized album, or nil.
func (m *Manager) Album() *model.Album {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.album
}

// Source returns the probed source, or nil.
func (m *Manager) Source() *ffmpeg.Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.source
}

// Written returns the paths exported so far, in completion order.
func (m *Manager) Written() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.written...)
}

// describe renders the per-track plan line shared by dry and real runs.
func describe(track *model.Track) string {
	return fmt.Sprintf("%02d/%02d %s  [%s - %s] (%s) -> %s",
		track.Number, track.Total, track.Title,
		timecode.Clock(track.Start), timecode.Clock(track.End), timecode.Clock(track.Duration()),
		track.FileName())
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
