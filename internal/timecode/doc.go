// Package timecode converts track marker positions such as "4:05" or
// "1:02:03.500" into durations measured from the start of the source.
//
// # Layouts
//
// The layout is chosen from the text itself:
//
//	"1:30"          one colon            M:S
//	"1:30.25"       one colon and a dot  M:S.f
//	"1:02:03"       two colons           H:M:S
//	"1:02:03.500"   two colons and a dot H:M:S.f
//
// A string without colons, with more than two colons, or that does not match
// the layout its separators select is rejected with a *ParseError.
//
// The same rules apply to marker positions and to the duration reported by
// the probe, so both can be compared directly:
//
//	start, err := timecode.Parse("4:05")
//	total, err := timecode.Parse("0:06:00.000000")
//
// # Formatting
//
// Format renders a duration in a given layout. Parsing the result with the
// same layout recovers the duration truncated to the layout's resolution
// (whole seconds, or microseconds for the fractional layouts).
package timecode
