package model

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.flac", "normal-file.flac"},
		{"file:with:colons", "file_with_colons"},
		{"file<with>brackets", "file_with_brackets"},
		{"file/with\\slashes", "file_with_slashes"},
		{"file|with|pipes", "file_with_pipes"},
		{"file?with*wildcards", "file_with_wildcards"},
		{"file\"with\"quotes", "file_with_quotes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"01. 序曲", 6, "01. "},
		{"01. 序曲", 7, "01. 序"},
		{"序", 2, ""},
		{"", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := truncateUTF8(tt.input, tt.n)
			if got != tt.want {
				t.Errorf("truncateUTF8(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
		})
	}
}

func TestTrack_LongPathKeepsValidUTF8(t *testing.T) {
	album := NewAlbum("Artist", "Album", "", &PathConfig{OutputPath: "/" + strings.Repeat("d", 250)})
	track := NewTrack(album, 1, 1, Marker{Title: "序曲序曲", Position: "0:00"}, 0, time.Minute, "flac", &TrackConfig{})

	if !utf8.ValidString(track.Path) {
		t.Fatalf("Track.Path is not valid UTF-8: %q", track.Path)
	}
	if got := track.FileName(); got != "01. .flac" {
		t.Errorf("FileName() = %q, want %q", got, "01. .flac")
	}
}

func TestAlbum_LongFolderKeepsValidUTF8(t *testing.T) {
	album := NewAlbum("", "序曲", "", &PathConfig{OutputPath: "/" + strings.Repeat("a", 245) + "{album}"})

	if !utf8.ValidString(album.Path) {
		t.Fatalf("Album.Path is not valid UTF-8: %q", album.Path)
	}
	if want := "/" + strings.Repeat("a", 245); album.Path != want {
		t.Errorf("Album.Path = %q, want %q", album.Path, want)
	}
}

func TestAlbum_PathComputation(t *testing.T) {
	cfg := &PathConfig{
		OutputPath:             "/music/{artist}/{album} ({year})",
		PlaylistFileNameFormat: "{album}",
		PlaylistFormat:         PlaylistFormatM3U,
	}

	album := NewAlbum("Test Artist", "Test: Album", "2023", cfg)

	want := filepath.Clean("/music/Test Artist/Test_ Album (2023)")
	if album.Path != want {
		t.Errorf("Album.Path = %q, want %q", album.Path, want)
	}

	wantPlaylist := filepath.Join(want, "Test_ Album.m3u")
	if album.PlaylistPath != wantPlaylist {
		t.Errorf("Album.PlaylistPath = %q, want %q", album.PlaylistPath, wantPlaylist)
	}
}

func TestAlbum_EmptyPlaylistName(t *testing.T) {
	cfg := &PathConfig{
		OutputPath:             "/music",
		PlaylistFileNameFormat: "{album}",
		PlaylistFormat:         PlaylistFormatPLS,
	}

	album := NewAlbum("", "", "", cfg)

	if got, want := album.PlaylistPath, filepath.Join("/music", "playlist.pls"); got != want {
		t.Errorf("PlaylistPath = %q, want %q", got, want)
	}
}

func TestTrack_PathComputation(t *testing.T) {
	album := NewAlbum("Artist", "Album", "", &PathConfig{OutputPath: "/music/out"})
	marker := Marker{Title: "Song: Part 1/2", Position: "1:30"}

	track := NewTrack(album, 2, 3, marker, 90*time.Second, 245*time.Second, "flac", &TrackConfig{})

	want := filepath.Join("/music/out", "02. Song_ Part 1_2.flac")
	if track.Path != want {
		t.Errorf("Track.Path = %q, want %q", track.Path, want)
	}
	if track.Title != "Song: Part 1/2" {
		t.Errorf("Track.Title = %q, want the raw title", track.Title)
	}
	if got := track.Duration(); got != 155*time.Second {
		t.Errorf("Duration() = %v, want %v", got, 155*time.Second)
	}
}

func TestTrack_CustomFormat(t *testing.T) {
	album := NewAlbum("Artist", "Album", "1999", &PathConfig{OutputPath: "/music"})
	marker := Marker{Title: "Intro", Position: "0:00", Artist: "Guest"}

	track := NewTrack(album, 1, 1, marker, 0, time.Minute, ".mp3", &TrackConfig{
		FileNameFormat: "{tracknum} {artist} - {title}",
	})

	want := filepath.Join("/music", "01 Guest - Intro.mp3")
	if track.Path != want {
		t.Errorf("Track.Path = %q, want %q", track.Path, want)
	}
	if track.Extension != "mp3" {
		t.Errorf("Extension = %q, want %q", track.Extension, "mp3")
	}
}

func TestDefaults_Apply(t *testing.T) {
	d := Defaults{Album: "Album", Artist: "Artist", Year: "2001"}

	got := d.Apply(Marker{Title: "A", Position: "0:00", Artist: "Row Artist"})

	if got.Album != "Album" || got.Year != "2001" {
		t.Errorf("Apply() did not fill defaults: %+v", got)
	}
	if got.Artist != "Row Artist" {
		t.Errorf("Apply() overwrote row value: Artist = %q", got.Artist)
	}
}

func TestPlaylistFormat_Extension(t *testing.T) {
	tests := []struct {
		format PlaylistFormat
		want   string
	}{
		{PlaylistFormatM3U, ".m3u"},
		{PlaylistFormatPLS, ".pls"},
		{PlaylistFormatWPL, ".wpl"},
		{PlaylistFormatZPL, ".zpl"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	if got := ParsePlaylistFormat("ZPL"); got != PlaylistFormatZPL {
		t.Errorf("ParsePlaylistFormat(ZPL) = %v, want %v", got, PlaylistFormatZPL)
	}
	if got := ParsePlaylistFormat("bogus"); got != PlaylistFormatM3U {
		t.Errorf("ParsePlaylistFormat(bogus) = %v, want %v", got, PlaylistFormatM3U)
	}
}
