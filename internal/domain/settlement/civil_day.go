package settlement

import (
	"fmt"
	"strings"
	"time"
)

// CivilOffset is the fixed offset of the business calendar. The business day is
// never DST-adjusted.
const CivilOffset = -6 * time.Hour

const civilDateLayout = "2006-01-02"

// civilZone is the fixed UTC-6 zone every civil date is interpreted in
var civilZone = time.FixedZone("UTC-6", int(CivilOffset/time.Second))

// CivilZone returns the business calendar zone
func CivilZone() *time.Location {
	return civilZone
}

// CivilDate is a calendar date in the business zone, independent of the
// absolute instants stored by the database.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DayBounds holds the first and last instant of a civil day
type DayBounds struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the bounds, both ends inclusive
func (b DayBounds) Contains(t time.Time) bool {
	return !t.Before(b.Start) && !t.After(b.End)
}

// NewCivilDate normalizes the given components (time.Date semantics)
func NewCivilDate(year int, month time.Month, day int) CivilDate {
	return CivilDateFromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// CivilDateOf returns the civil date that contains instant t
func CivilDateOf(t time.Time) CivilDate {
	local := t.In(civilZone)
	return CivilDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// CivilDateFromTime reads the calendar fields of t as-is, without zone
// conversion. Used for values coming out of DATE columns.
func CivilDateFromTime(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the civil date of now
func Today(now time.Time) CivilDate {
	return CivilDateOf(now)
}

// ParseCivilDate parses a YYYY-MM-DD string
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(civilDateLayout, strings.TrimSpace(s))
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid civil date %q: %w", s, err)
	}
	return CivilDateFromTime(t), nil
}

// CivilDateOrToday parses s and falls back to the civil date of now when s is
// empty or malformed.
func CivilDateOrToday(s string, now time.Time) CivilDate {
	d, err := ParseCivilDate(s)
	if err != nil {
		return Today(now)
	}
	return d
}

// Bounds returns [civil midnight, civil midnight + 1 day - 1ms] of the date
func (d CivilDate) Bounds() DayBounds {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, civilZone)
	return DayBounds{
		Start: start,
		End:   start.AddDate(0, 0, 1).Add(-time.Millisecond),
	}
}

// Time returns the date as UTC midnight, the representation written to DATE columns
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset
func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as YYYY-MM-DD
func (d CivilDate) String() string {
	return d.Time().Format(civilDateLayout)
}

// MarshalText implements encoding.TextMarshaler
func (d CivilDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *CivilDate) UnmarshalText(data []byte) error {
	parsed, err := ParseCivilDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
