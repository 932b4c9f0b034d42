package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates y/m/d as a real calendar day.
func NewDate(year int, month time.Month, day int) (Date, bool) {
	if year < 1 || month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

var exifDateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
}

// ParseEXIFDate parses an EXIF date/time string. Fractional seconds after a
// '.' are dropped before parsing.
func ParseEXIFDate(value string) (Date, bool) {
	value = strings.Trim(value, "\x00 \t\r\n")
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		value = value[:idx]
	}
	if value == "" {
		return Date{}, false
	}
	for _, layout := range exifDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

var filenameDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:IMG|VID|PXL|DJI)_(\d{4})(\d{2})(\d{2})`),
	regexp.MustCompile(`(\d{4})[.-](\d{2})[.-](\d{2})`),
	regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`),
}

// DateFromFilename extracts a date from common camera and export naming
// schemes. Patterns are tried in order; only the first match of each pattern is
// considered, and a match that is not a real calendar day falls through to the
// next pattern.
func DateFromFilename(name string) (Date, bool) {
	for _, pattern := range filenameDatePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := NewDate(year, time.Month(month), day); ok {
			return d, true
		}
	}
	return Date{}, false
}
