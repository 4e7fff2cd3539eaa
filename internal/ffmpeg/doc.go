// Package ffmpeg runs the external ffprobe and ffmpeg binaries.
//
// A run opens its source once with Open, which probes the total duration,
// and then exports each track through an Extractor. The FFmpeg extractor
// cuts the half-open millisecond range [start, end) of the source, drops
// the source's own metadata and re-encodes into the container implied by
// the track's output extension, passing inline tags as -metadata options.
package ffmpeg
