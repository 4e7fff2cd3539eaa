package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/splitaudio/internal/audio"
	"github.com/handiism/splitaudio/internal/model"
)

// ErrInvalidSettings is wrapped by every error Validate returns.
var ErrInvalidSettings = errors.New("invalid settings")

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SPLITAUDIO_"

// Settings holds all configuration options.
type Settings struct {
	// Input
	InputPath     string `json:"input_path" toml:"input_path"`
	TrackListPath string `json:"track_list_path" toml:"track_list_path"`

	// Output; an empty OutputPath means the source's directory.
	OutputPath     string `json:"output_path" toml:"output_path"`
	OutputFormat   string `json:"output_format" toml:"output_format"`
	FileNameFormat string `json:"file_name_format" toml:"file_name_format"`

	// Run-level tag defaults
	Album  string `json:"album" toml:"album"`
	Artist string `json:"artist" toml:"artist"`
	Year   string `json:"year" toml:"year"`

	// External tools
	FFmpegPath  string `json:"ffmpeg_path" toml:"ffmpeg_path"`
	FFprobePath string `json:"ffprobe_path" toml:"ffprobe_path"`

	// Processing
	MaxConcurrentTracks int  `json:"max_concurrent_tracks" toml:"max_concurrent_tracks"`
	DryRun              bool `json:"dry_run" toml:"dry_run"`
	Verbose             bool `json:"verbose" toml:"verbose"`

	// Tag settings
	ModifyTags bool `json:"modify_tags" toml:"modify_tags"`

	// Cover art settings; CoverArt is a file path or an http(s) URL.
	CoverArt              string `json:"cover_art" toml:"cover_art"`
	CoverArtInTagsResize  bool   `json:"cover_art_in_tags_resize" toml:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize int    `json:"cover_art_in_tags_max_size" toml:"cover_art_in_tags_max_size"`
	ConvertCoverArtToJPG  bool   `json:"convert_cover_art_to_jpg" toml:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist         bool   `json:"create_playlist" toml:"create_playlist"`
	PlaylistFormat         string `json:"playlist_format" toml:"playlist_format"` // m3u, pls, wpl, zpl
	PlaylistFileNameFormat string `json:"playlist_file_name_format" toml:"playlist_file_name_format"`
	M3UExtended            bool   `json:"m3u_extended" toml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FileNameFormat: model.DefaultFileNameFormat,

		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		MaxConcurrentTracks: 1,

		ModifyTags: true,

		CoverArtInTagsResize:  true,
		CoverArtInTagsMaxSize: 1000,
		ConvertCoverArtToJPG:  true,

		CreatePlaylist:         false,
		PlaylistFormat:         "m3u",
		PlaylistFileNameFormat: "{album}",
		M3UExtended:            true,
	}
}

// Load reads settings from a JSON or TOML file, chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		err = toml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or TOML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// ApplyEnv overrides settings from SPLITAUDIO_* environment variables.
// The given dotenv files (".env" when none are named) are loaded first;
// missing files are ignored and variables already set are not replaced.
func (s *Settings) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("INPUT", &s.InputPath)
	str("TRACK_LIST", &s.TrackListPath)
	str("OUTPUT", &s.OutputPath)
	str("FORMAT", &s.OutputFormat)
	str("FILE_NAME_FORMAT", &s.FileNameFormat)
	str("ALBUM", &s.Album)
	str("ARTIST", &s.Artist)
	str("YEAR", &s.Year)
	str("FFMPEG", &s.FFmpegPath)
	str("FFPROBE", &s.FFprobePath)
	str("COVER_ART", &s.CoverArt)
	str("PLAYLIST_FORMAT", &s.PlaylistFormat)

	var errs []error
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	boolean("DRY_RUN", &s.DryRun)
	boolean("VERBOSE", &s.Verbose)
	boolean("MODIFY_TAGS", &s.ModifyTags)
	boolean("PLAYLIST", &s.CreatePlaylist)

	if v, ok := os.LookupEnv(EnvPrefix + "MAX_CONCURRENT_TRACKS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_CONCURRENT_TRACKS: %w", EnvPrefix, err))
		} else {
			s.MaxConcurrentTracks = n
		}
	}

	return errors.Join(errs...)
}

// Validate checks the settings a run cannot start without.
func (s *Settings) Validate() error {
	switch {
	case s.InputPath == "":
		return fmt.Errorf("%w: no input file", ErrInvalidSettings)
	case s.TrackListPath == "":
		return fmt.Errorf("%w: no track list", ErrInvalidSettings)
	case s.MaxConcurrentTracks < 1:
		return fmt.Errorf("%w: max concurrent tracks must be at least 1, got %d", ErrInvalidSettings, s.MaxConcurrentTracks)
	case s.CoverArtInTagsResize && s.CoverArtInTagsMaxSize < 1:
		return fmt.Errorf("%w: cover art max size must be positive, got %d", ErrInvalidSettings, s.CoverArtInTagsMaxSize)
	}
	switch strings.ToLower(s.PlaylistFormat) {
	case "", "m3u", "pls", "wpl", "zpl":
	default:
		return fmt.Errorf("%w: unknown playlist format %q", ErrInvalidSettings, s.PlaylistFormat)
	}
	return nil
}

// ResolvedOutputPath returns OutputPath, or the input's directory when
// OutputPath is empty.
func (s *Settings) ResolvedOutputPath() string {
	if s.OutputPath != "" {
		return s.OutputPath
	}
	return filepath.Dir(s.InputPath)
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputPath:             s.ResolvedOutputPath(),
		PlaylistFileNameFormat: s.PlaylistFileNameFormat,
		PlaylistFormat:         model.ParsePlaylistFormat(s.PlaylistFormat),
	}
}

// ToTrackConfig converts settings to TrackConfig.
func (s *Settings) ToTrackConfig() *model.TrackConfig {
	return &model.TrackConfig{
		FileNameFormat: s.FileNameFormat,
	}
}

// ToTagConfig converts settings to TagConfig. Artwork is attached later,
// once the cover has been loaded.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	return cfg
}
