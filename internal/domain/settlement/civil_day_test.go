package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilDate_Bounds(t *testing.T) {
	d := NewCivilDate(2025, time.January, 15)
	b := d.Bounds()

	assert.Equal(t, time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC), b.Start.UTC())
	assert.Equal(t, time.Date(2025, 1, 16, 5, 59, 59, int(999*time.Millisecond), time.UTC), b.End.UTC())
	assert.Equal(t, b.Start.Add(24*time.Hour-time.Millisecond), b.End)
}

func TestCivilDate_BoundsSpanEveryDayOfYear(t *testing.T) {
	start := NewCivilDate(2024, time.January, 1)
	for i := 0; i < 366; i++ {
		d := NewCivilDate(start.Year, start.Month, start.Day+i)
		b := d.Bounds()
		require.Equal(t, b.Start.AddDate(0, 0, 1).Add(-time.Millisecond), b.End, d.String())
		require.Equal(t, d, CivilDateOf(b.Start), d.String())
		require.Equal(t, d, CivilDateOf(b.End), d.String())
	}
}

func TestCivilDateOf_InstantFallsInsideItsBounds(t *testing.T) {
	instants := []time.Time{
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 15, 5, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 15, 23, 30, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 59, 999, time.UTC),
		time.Date(2024, 2, 29, 3, 0, 0, 0, time.UTC),
	}
	for _, ts := range instants {
		d := CivilDateOf(ts)
		b := d.Bounds()
		assert.True(t, b.Contains(ts), "%s should be inside %s", ts, d)
	}
}

func TestCivilDateOf_NearUTCMidnight(t *testing.T) {
	// 03:00 UTC on the 16th is still the 15th in the business calendar
	ts := time.Date(2025, 1, 16, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-15", CivilDateOf(ts).String())

	ts = time.Date(2025, 1, 16, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-16", CivilDateOf(ts).String())
}

func TestParseCivilDate(t *testing.T) {
	d, err := ParseCivilDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, NewCivilDate(2025, time.January, 15), d)

	d, err = ParseCivilDate(" 2025-03-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.String())

	for _, bad := range []string{"", "15/01/2025", "2025-13-01", "tomorrow"} {
		_, err := ParseCivilDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestCivilDateOrToday(t *testing.T) {
	now := time.Date(2025, 1, 16, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-01-10", CivilDateOrToday("2025-01-10", now).String())
	assert.Equal(t, "2025-01-15", CivilDateOrToday("", now).String())
	assert.Equal(t, "2025-01-15", CivilDateOrToday("not-a-date", now).String())
	assert.Equal(t, Today(now), CivilDateOrToday("2025-02-30", now))
}

func TestCivilDate_TextRoundTrip(t *testing.T) {
	d := NewCivilDate(2025, time.June, 9)
	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-09", string(text))

	var back CivilDate
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, d, back)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), back.Time())
}
