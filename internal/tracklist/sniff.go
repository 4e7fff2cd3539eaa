package tracklist

import (
	"encoding/csv"
	"strings"
)

// SampleSize is how much of the track list is inspected to pick a dialect.
const SampleSize = 4096

// Candidates are the delimiters considered by Sniff, in order of preference.
var Candidates = []rune{',', ';', '\t', '|'}

// Dialect describes how the rows of a track list are delimited.
type Dialect struct {
	Comma rune
}

// String names the delimiter for progress messages.
func (d Dialect) String() string {
	switch d.Comma {
	case '\t':
		return "tab"
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	default:
		return string(d.Comma)
	}
}

// Sniff picks the delimiter that splits the leading sample of text into the
// most consistent rows.
//
// A candidate scores best when every sampled row has the same number of
// fields and that number is above one. Among equally consistent candidates
// the one producing more fields wins, then the earlier entry in Candidates.
// When nothing splits the sample, the comma dialect is returned and the
// header check reports the missing columns.
func Sniff(text string) Dialect {
	sample := leadingSample(text)

	best := Dialect{Comma: ','}
	bestConsistent := false
	bestFields := 1

	for _, comma := range Candidates {
		fields, consistent := score(sample, comma)
		if fields <= 1 {
			continue
		}
		switch {
		case consistent && !bestConsistent,
			consistent == bestConsistent && fields > bestFields:
			best = Dialect{Comma: comma}
			bestConsistent = consistent
			bestFields = fields
		}
	}

	return best
}

// leadingSample returns up to SampleSize bytes of text cut at the last
// complete line, so a partial row does not skew the field counts.
func leadingSample(text string) string {
	if len(text) <= SampleSize {
		return text
	}
	sample := text[:SampleSize]
	if i := strings.LastIndexByte(sample, '\n'); i > 0 {
		sample = sample[:i+1]
	}
	return sample
}

// score returns the most common field count for comma and whether every
// row of the sample has exactly that many fields.
func score(sample string, comma rune) (int, bool) {
	r := csv.NewReader(strings.NewReader(sample))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	counts := make(map[int]int)
	rows := 0
	for {
		record, err := r.Read()
		if err != nil {
			// io.EOF ends the sample; any other error means the candidate
			// does not fit the quoting and is scored on what was read.
			break
		}
		counts[len(record)]++
		rows++
	}
	if rows == 0 {
		return 0, false
	}

	mode, modeRows := 0, 0
	for fields, n := range counts {
		if n > modeRows || n == modeRows && fields > mode {
			mode, modeRows = fields, n
		}
	}
	return mode, modeRows == rows
}
