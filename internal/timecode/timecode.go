package timecode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout identifies one of the accepted timecode shapes.
type Layout int

const (
	// MinutesSeconds is "M:S". Minutes are not capped at 59 so long
	// recordings can be addressed without an hours field.
	MinutesSeconds Layout = iota

	// MinutesSecondsFraction is "M:S.f" with 1 to 6 fractional digits.
	MinutesSecondsFraction

	// HoursMinutesSeconds is "H:M:S".
	HoursMinutesSeconds

	// HoursMinutesSecondsFraction is "H:M:S.f" with 1 to 6 fractional digits.
	HoursMinutesSecondsFraction
)

var layoutPatterns = map[Layout]*regexp.Regexp{
	MinutesSeconds:              regexp.MustCompile(`^(\d+):(\d{1,2})$`),
	MinutesSecondsFraction:      regexp.MustCompile(`^(\d+):(\d{1,2})\.(\d{1,6})$`),
	HoursMinutesSeconds:         regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})$`),
	HoursMinutesSecondsFraction: regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})\.(\d{1,6})$`),
}

// String returns the layout in the notation used by error messages.
func (l Layout) String() string {
	switch l {
	case MinutesSeconds:
		return "M:S"
	case MinutesSecondsFraction:
		return "M:S.f"
	case HoursMinutesSeconds:
		return "H:M:S"
	case HoursMinutesSecondsFraction:
		return "H:M:S.f"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// HasFraction reports whether the layout carries fractional seconds.
func (l Layout) HasFraction() bool {
	return l == MinutesSecondsFraction || l == HoursMinutesSecondsFraction
}

// Resolution is the smallest step the layout can represent.
func (l Layout) Resolution() time.Duration {
	if l.HasFraction() {
		return time.Microsecond
	}
	return time.Second
}

// ParseError reports a timecode that does not match any accepted layout.
type ParseError struct {
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timecode %q: %s", e.Value, e.Reason)
}

// DetectLayout selects a layout from the number of colons and the presence
// of a decimal point. It does not validate the digits.
func DetectLayout(s string) (Layout, error) {
	s = strings.TrimSpace(s)
	fraction := strings.Contains(s, ".")

	switch strings.Count(s, ":") {
	case 0:
		return 0, &ParseError{Value: s, Reason: "no ':' separator"}
	case 1:
		if fraction {
			return MinutesSecondsFraction, nil
		}
		return MinutesSeconds, nil
	case 2:
		if fraction {
			return HoursMinutesSecondsFraction, nil
		}
		return HoursMinutesSeconds, nil
	default:
		return 0, &ParseError{Value: s, Reason: "too many ':' separators"}
	}
}

// Parse converts a timecode to the elapsed duration it denotes.
func Parse(s string) (time.Duration, error) {
	layout, err := DetectLayout(s)
	if err != nil {
		return 0, err
	}
	return ParseLayout(s, layout)
}

// ParseLayout parses s with an explicit layout.
func ParseLayout(s string, layout Layout) (time.Duration, error) {
	s = strings.TrimSpace(s)

	re, ok := layoutPatterns[layout]
	if !ok {
		return 0, &ParseError{Value: s, Reason: "unknown layout " + layout.String()}
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Value: s, Reason: "does not match " + layout.String()}
	}

	var hours, minutes, seconds int64
	var fraction string
	var err error

	switch layout {
	case MinutesSeconds, MinutesSecondsFraction:
		if minutes, err = strconv.ParseInt(m[1], 10, 64); err != nil {
			return 0, &ParseError{Value: s, Reason: "minutes out of range"}
		}
		seconds, _ = strconv.ParseInt(m[2], 10, 64)
		if layout == MinutesSecondsFraction {
			fraction = m[3]
		}
	case HoursMinutesSeconds, HoursMinutesSecondsFraction:
		if hours, err = strconv.ParseInt(m[1], 10, 64); err != nil {
			return 0, &ParseError{Value: s, Reason: "hours out of range"}
		}
		minutes, _ = strconv.ParseInt(m[2], 10, 64)
		seconds, _ = strconv.ParseInt(m[3], 10, 64)
		if minutes > 59 {
			return 0, &ParseError{Value: s, Reason: "minutes must be below 60"}
		}
		if layout == HoursMinutesSecondsFraction {
			fraction = m[4]
		}
	}
	if seconds > 59 {
		return 0, &ParseError{Value: s, Reason: "seconds must be below 60"}
	}

	// time.Duration overflows at roughly 292 years.
	const maxHours = int64(time.Duration(1<<63-1) / time.Hour)
	if hours+minutes/60 >= maxHours-1 {
		return 0, &ParseError{Value: s, Reason: "duration too large"}
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second

	if fraction != "" {
		micros, _ := strconv.ParseInt(fraction+strings.Repeat("0", 6-len(fraction)), 10, 64)
		d += time.Duration(micros) * time.Microsecond
	}
	return d, nil
}

// Format renders d in the given layout. Negative durations are prefixed
// with '-' and are not accepted back by Parse.
func Format(d time.Duration, layout Layout) string {
	if d < 0 {
		return "-" + Format(-d, layout)
	}
	d = d.Truncate(layout.Resolution())

	var s string
	switch layout {
	case HoursMinutesSeconds, HoursMinutesSecondsFraction:
		h := d / time.Hour
		m := (d % time.Hour) / time.Minute
		sec := (d % time.Minute) / time.Second
		s = fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	default:
		m := d / time.Minute
		sec := (d % time.Minute) / time.Second
		s = fmt.Sprintf("%d:%02d", m, sec)
	}

	if layout.HasFraction() {
		s += fmt.Sprintf(".%06d", (d%time.Second)/time.Microsecond)
	}
	return s
}

// Clock renders d as HH:MM:SS.mmm for progress messages.
func Clock(d time.Duration) string {
	if d < 0 {
		return "-" + Clock(-d)
	}
	d = d.Truncate(time.Millisecond)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
