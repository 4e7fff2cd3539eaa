// Package audio provides the metadata side of splitting: tag sets, the
// tagging strategies, output container selection, tag inspection and
// playlist generation.
//
// # Tagging
//
// Every track gets the same set of fields, built with NewTagSet:
//   - title
//   - track number ("N/total")
//   - disc number ("1/1")
//   - album, artist and album artist, year (when known)
//
// How they reach the file depends on the output format. Formats whose
// muxer writes these keys natively receive them inline, as part of the
// encoder call. Others are rewritten after export with a dedicated tag
// library:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	strategy := tagger.StrategyFor("mp3")
//	if strategy.Inline() {
//	    // pass tags.Fields() to the encoder
//	}
//	err := strategy.Apply(track.Path, tags)
//
// # Output Containers
//
// OutputExtension maps input containers that cannot carry the tag set to
// one that can (for example wav to flac).
//
// # Playlist Generation
//
// Generate playlists of the split tracks in various formats:
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
