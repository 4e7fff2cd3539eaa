package audio

import (
	"path/filepath"
	"strings"
)

// containerSubstitutions maps input containers whose tag support is too
// limited for the tag set to an output container that has it.
var containerSubstitutions = map[string]string{
	"wav":  "flac",
	"aif":  "flac",
	"aiff": "flac",
	"ape":  "flac",
	"wv":   "flac",
	"m4b":  "m4a",
	"webm": "ogg",
}

// SourceExtension returns the lower-cased extension of path without the dot.
func SourceExtension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// OutputExtension returns the extension split tracks are written with for
// a given input extension. Extensions without a substitution pass through.
func OutputExtension(inputExt string) string {
	ext := strings.ToLower(strings.TrimPrefix(inputExt, "."))
	if out, ok := containerSubstitutions[ext]; ok {
		return out
	}
	return ext
}
