// Package model defines the core data structures shared by the splitter.
//
// # Marker
//
// Marker is one row of the track list: a title and the position where the
// track begins, plus optional per-row album, artist and year values:
//
//	m := model.Marker{Line: 2, Title: "Intro", Position: "0:00"}
//
// # Album
//
// Album is the run context: the defaults applied to every track and the
// computed output locations:
//
//	album := model.NewAlbum("Artist", "Title", "1999", pathConfig)
//	fmt.Println(album.Path)         // Where split tracks are written
//	fmt.Println(album.PlaylistPath) // Where the optional playlist goes
//
// # Track
//
// Track is a validated time range of the source assigned to one output file.
// Tracks are built by the boundary package and never modified afterwards:
//
//	track := model.NewTrack(album, 1, 3, marker, start, end, "flac", trackConfig)
//	fmt.Println(track.Path) // "/music/out/01. Intro.flac"
//
// # Path Configuration
//
// PathConfig and TrackConfig control how output paths are computed using
// placeholders: {artist}, {album}, {year}, {title}, {tracknum}.
package model
