package audio

import (
	"testing"
	"time"

	"github.com/handiism/splitaudio/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n, total int
		want     string
	}{
		{3, 12, "3/12"},
		{3, 0, "3"},
		{0, 12, "/12"},
		{0, 0, ""},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n, tt.total); got != tt.want {
			t.Errorf("FormatNumber(%d, %d) = %q, want %q", tt.n, tt.total, got, tt.want)
		}
	}
}

func TestNewTagSet(t *testing.T) {
	album := model.NewAlbum("Band", "Live", "1999", &model.PathConfig{OutputPath: "/out"})
	track := model.NewTrack(album, 2, 5, model.Marker{Title: "Song", Album: "Live", Artist: "Guest", Year: "2001"}, time.Minute, 2*time.Minute, "flac", nil)

	got := NewTagSet(track)
	want := TagSet{
		Title:       "Song",
		Track:       "2/5",
		Disc:        "1/1",
		Album:       "Live",
		Artist:      "Guest",
		AlbumArtist: "Guest",
		Date:        "2001",
	}
	if got != want {
		t.Errorf("NewTagSet() = %+v, want %+v", got, want)
	}
}

func TestTagSet_Fields(t *testing.T) {
	set := TagSet{Title: "Song", Track: "1/2", Disc: "1/1", Artist: "Band", AlbumArtist: "Band"}

	got := set.Fields()
	wantKeys := []string{"title", "track", "disc", "artist", "album_artist"}
	if len(got) != len(wantKeys) {
		t.Fatalf("Fields() returned %d fields, want %d: %+v", len(got), len(wantKeys), got)
	}
	for i, key := range wantKeys {
		if got[i].Key != key {
			t.Errorf("field %d key = %q, want %q", i, got[i].Key, key)
		}
	}
}

func TestOutputExtension(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"wav", "flac"},
		{".WAV", "flac"},
		{"aiff", "flac"},
		{"ape", "flac"},
		{"wv", "flac"},
		{"m4b", "m4a"},
		{"webm", "ogg"},
		{"mp3", "mp3"},
		{"flac", "flac"},
		{"opus", "opus"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := OutputExtension(tt.input); got != tt.want {
				t.Errorf("OutputExtension(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceExtension(t *testing.T) {
	if got := SourceExtension("/music/Live Set.FLAC"); got != "flac" {
		t.Errorf("SourceExtension() = %q, want %q", got, "flac")
	}
	if got := SourceExtension("/music/noext"); got != "" {
		t.Errorf("SourceExtension() = %q, want empty", got)
	}
}
