package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// Strategy is the tagging capability of one output format.
//
// Inline strategies hand their fields to the encoder and have nothing left
// to do afterwards. Post-hoc strategies export untagged audio and rewrite
// the tag block of the finished file in Apply.
type Strategy interface {
	// Name identifies the strategy in progress messages.
	Name() string

	// Inline reports whether tags must be passed to the encoder.
	Inline() bool

	// Apply runs after the file at path has been exported.
	Apply(path string, tags TagSet) error
}

// TagConfig holds tagging configuration.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    PostHoc:    []string{"mp3"},
//	    Artwork:    jpegBytes,
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no tags are written.
	ModifyTags bool

	// PostHoc lists output extensions whose tags are rewritten after
	// export instead of being passed to the encoder.
	PostHoc []string

	// Artwork is embedded as front cover by post-hoc strategies.
	// JPEG bytes, nil to skip.
	Artwork []byte
}

// DefaultTagConfig returns the default tag configuration.
//
// MP3 is tagged post-hoc: ffmpeg's ID3 muxer cannot write the album artist
// and disc set the way players expect, so the tag is rebuilt as ID3v2.4.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		PostHoc:    []string{"mp3"},
	}
}

// Tagger selects the tagging strategy for an output format.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	s := tagger.StrategyFor(track.Extension)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SetArtwork replaces the cover art embedded by post-hoc strategies.
func (t *Tagger) SetArtwork(artwork []byte) {
	t.config.Artwork = artwork
}

// StrategyFor returns the strategy for an output extension.
func (t *Tagger) StrategyFor(ext string) Strategy {
	if !t.config.ModifyTags {
		return noTags{}
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, p := range t.config.PostHoc {
		if strings.EqualFold(p, ext) {
			return &ID3Strategy{Artwork: t.config.Artwork}
		}
	}
	return InlineStrategy{}
}

// InlineStrategy passes tags to the encoder. Apply does nothing.
type InlineStrategy struct{}

func (InlineStrategy) Name() string { return "inline" }

func (InlineStrategy) Inline() bool { return true }

func (InlineStrategy) Apply(string, TagSet) error { return nil }

type noTags struct{}

func (noTags) Name() string { return "none" }

func (noTags) Inline() bool { return false }

func (noTags) Apply(string, TagSet) error { return nil }

// ID3Strategy rewrites the ID3v2 tag of an exported file.
//
// Existing frames, including whatever the encoder wrote, are dropped and
// the tag is rebuilt as ID3v2.4 with UTF-8 text. Frames are written in a
// fixed order, so applying the same TagSet twice yields the same bytes.
type ID3Strategy struct {
	// Artwork is embedded as the front cover when non-nil.
	Artwork []byte
}

func (s *ID3Strategy) Name() string { return "id3v2" }
func (s *ID3Strategy) Inline() bool { return false }

// Apply strips the current tag and prepends the rebuilt one.
func (s *ID3Strategy) Apply(path string, tags TagSet) error {
	if err := stripID3(path); err != nil {
		return err
	}

	header, err := encodeID3(s.frames(tags))
	if err != nil {
		return err
	}
	if len(header) == 0 {
		return nil
	}
	return prependFile(path, header)
}

type id3Frame struct {
	id   string
	body id3v2.Framer
}

func (s *ID3Strategy) frames(tags TagSet) []id3Frame {
	var frames []id3Frame
	for _, f := range []struct{ id, value string }{
		{"TIT2", tags.Title},
		{"TRCK", tags.Track},
		{"TPOS", tags.Disc},
		{"TALB", tags.Album},
		{"TPE1", tags.Artist},
		{"TPE2", tags.AlbumArtist},
		{"TDRC", tags.Date},
	} {
		if f.value != "" {
			frames = append(frames, id3Frame{f.id, id3v2.TextFrame{Encoding: id3v2.EncodingUTF8, Text: f.value}})
		}
	}

	if s.Artwork != nil {
		frames = append(frames, id3Frame{"APIC", id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     s.Artwork,
		}})
	}
	return frames
}

// maxSynchsafe is the largest size a 4-byte synchsafe integer holds.
const maxSynchsafe = 1<<28 - 1

// encodeID3 serializes frames as an ID3v2.4 tag in the given order.
// No frames means no tag.
func encodeID3(frames []id3Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	var body bytes.Buffer
	for _, f := range frames {
		size := f.body.Size()
		if size > maxSynchsafe {
			return nil, fmt.Errorf("%s frame: %w", f.id, id3v2.ErrSizeOverflow)
		}
		body.WriteString(f.id)
		body.Write(synchsafe(size))
		body.Write([]byte{0, 0})
		if _, err := f.body.WriteTo(&body); err != nil {
			return nil, fmt.Errorf("%s frame: %w", f.id, err)
		}
	}
	if body.Len() > maxSynchsafe {
		return nil, id3v2.ErrSizeOverflow
	}

	out := make([]byte, 0, 10+body.Len())
	out = append(out, 'I', 'D', '3', 4, 0, 0)
	out = append(out, synchsafe(body.Len())...)
	return append(out, body.Bytes()...), nil
}

func synchsafe(n int) []byte {
	return []byte{byte(n>>21) & 0x7F, byte(n>>14) & 0x7F, byte(n>>7) & 0x7F, byte(n) & 0x7F}
}

// stripID3 removes the leading ID3v2 tag from path, leaving the audio.
func stripID3(path string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	return tag.Save()
}

// prependFile writes header followed by the current content of path to a
// sibling temp file and renames it over path.
func prependFile(path string, header []byte) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	src.Close()

	return os.Rename(tmp.Name(), path)
}
