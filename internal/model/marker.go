package model

// Marker is one row of the track list. Row order is significant and
// preserved; a Marker is never modified after it has been read.
type Marker struct {
	// Line is the 1-based line of the row in the track list, for diagnostics.
	Line int

	// Title is the track title. Required.
	Title string

	// Position is the raw timecode where the track begins. Required.
	Position string

	// Album, Artist and Year are empty unless the row overrides the
	// run-level defaults.
	Album  string
	Artist string
	Year   string
}

// Defaults holds the run-level metadata used when a row leaves a field empty.
type Defaults struct {
	Album  string
	Artist string
	Year   string
}

// Apply returns m with every empty optional field taken from d.
func (d Defaults) Apply(m Marker) Marker {
	if m.Album == "" {
		m.Album = d.Album
	}
	if m.Artist == "" {
		m.Artist = d.Artist
	}
	if m.Year == "" {
		m.Year = d.Year
	}
	return m
}
