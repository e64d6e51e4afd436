package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", Clock(9 * time.Hour), false},
		{"17:30", Clock(17*time.Hour + 30*time.Minute), false},
		{"9:15", Clock(9*time.Hour + 15*time.Minute), false},
		{"08:00:30", Clock(8*time.Hour + 30*time.Second), false},
		{"", 0, true},
		{"25:00", 0, true},
		{"nine", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockOnAndString(t *testing.T) {
	c := Clock(9*time.Hour + 45*time.Minute)
	day := time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 1, 2, 9, 45, 0, 0, time.UTC), c.On(day))
	assert.Equal(t, "09:45:00", c.String())
}

func TestWithin(t *testing.T) {
	lower, upper := Clock(9*time.Hour), Clock(17*time.Hour)

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", at(10, 0), at(11, 0), true},
		{"exactly the shift", at(9, 0), at(17, 0), true},
		{"starts before opening", at(8, 0), at(9, 0), false},
		{"ends after closing", at(16, 0), at(18, 0), false},
		{"starts at closing", at(17, 0), at(18, 0), false},
		{"ignores the date", at(10, 0), at(11, 0).AddDate(0, 0, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(tt.start, tt.end, lower, upper))
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"touching after", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"touching before", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(9, 0), at(9, 30), at(14, 0), at(15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2026-03-10T10:00:00",
		"2026-03-10T10:00",
		"2026-03-10 10:00:00",
		"2026-03-10T10:00:00+03:00",
		"2026-03-10T10:00:00Z",
		"2026-03-10T10:00+03:00",
		"2026-03-10T10:00Z",
		"2026-03-10T10:00:00+0300",
		"2026-03-10T10:00-0500",
		"2026-03-10T10:00:00.000-05:00",
	} {
		t.Run(in, func(t *testing.T) {
			got, err := ParseTimestamp(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	got, err := ParseTimestamp("2026-03-10T10:00:00.250000")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, time.Duration(got.Nanosecond()))

	_, err = ParseTimestamp("not-a-date")
	assert.Error(t, err)
	_, err = ParseTimestamp("")
	assert.Error(t, err)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2026-03-10T10:00:00", FormatTimestamp(at(10, 0)))
	assert.Equal(t, "2026-03-10T10:00:00.500000",
		FormatTimestamp(at(10, 0).Add(500*time.Millisecond)))
}
