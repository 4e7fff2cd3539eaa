// Package tracklist reads the ordered list of track-start markers from a
// delimited text file.
//
// The first row is a header naming the columns. "title" and "position" are
// required; "album", "artist" and "year" are optional and, when a row fills
// them, override the run defaults for that row only:
//
//	title,position,artist
//	Intro,0:00,
//	Song A,1:30,Guest Singer
//
// The delimiter is detected from a leading sample of the file, so comma,
// semicolon, tab and pipe separated lists are all accepted.
package tracklist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	ioutils "github.com/handiism/splitaudio/internal/io"
	"github.com/handiism/splitaudio/internal/model"
)

// Column names recognised in the header row.
const (
	ColumnTitle    = "title"
	ColumnPosition = "position"
	ColumnAlbum    = "album"
	ColumnArtist   = "artist"
	ColumnYear     = "year"
)

// RequiredColumns must be present in every track list.
var RequiredColumns = []string{ColumnTitle, ColumnPosition}

// SchemaError reports a track list whose header lacks a required column.
// It is returned before any row is read.
type SchemaError struct {
	Missing []string
	Columns []string
}

func (e *SchemaError) Error() string {
	found := "none"
	if len(e.Columns) > 0 {
		found = strings.Join(e.Columns, ", ")
	}
	return fmt.Sprintf("track list is missing required column(s) %s (found: %s)",
		strings.Join(e.Missing, ", "), found)
}

// RowError reports a row that cannot become a marker.
type RowError struct {
	Line   int
	Column string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("track list line %d: %s %s", e.Line, e.Column, e.Reason)
}

// Result is the outcome of reading a track list.
type Result struct {
	Dialect Dialect
	Columns []string
	Markers []model.Marker
}

// ReadFile reads the track list at path. The file may be UTF-8, UTF-16
// with a byte order mark, or GBK.
func ReadFile(path string, defaults model.Defaults) (*Result, error) {
	text, err := ioutils.ReadTextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track list: %w", err)
	}
	return Parse(text, defaults)
}

// Read reads a track list from r.
func Read(r io.Reader, defaults model.Defaults) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read track list: %w", err)
	}
	text, err := ioutils.DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("decode track list: %w", err)
	}
	return Parse(text, defaults)
}

// Parse reads markers from already decoded text.
func Parse(text string, defaults model.Defaults) (*Result, error) {
	dialect := Sniff(text)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = dialect.Comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read track list header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		columns[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Columns: columns}
	}

	result := &Result{Dialect: dialect, Columns: columns}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read track list: %w", err)
		}

		line, _ := r.FieldPos(0)
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		marker := model.Marker{
			Line:     line,
			Title:    cell(ColumnTitle),
			Position: cell(ColumnPosition),
			Album:    cell(ColumnAlbum),
			Artist:   cell(ColumnArtist),
			Year:     cell(ColumnYear),
		}
		if marker.Title == "" && marker.Position == "" && isBlank(record) {
			continue
		}
		if marker.Title == "" {
			return nil, &RowError{Line: line, Column: ColumnTitle, Reason: "is empty"}
		}
		if marker.Position == "" {
			return nil, &RowError{Line: line, Column: ColumnPosition, Reason: "is empty"}
		}

		result.Markers = append(result.Markers, defaults.Apply(marker))
	}

	return result, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
