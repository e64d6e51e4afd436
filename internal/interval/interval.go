package interval

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a time of day, stored as the offset from midnight.
type Clock time.Duration

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock parses "HH:MM" (or "HH:MM:SS") into a Clock.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("interval: empty time of day")
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("interval: invalid time of day %q", s)
}

// ClockOf returns the time-of-day part of t.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
	return Clock(d)
}

// On combines the date of day with c.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(c))
}

func (c Clock) String() string {
	return time.Time{}.Add(time.Duration(c)).Format("15:04:05")
}

// Within reports whether start's time of day is not before lower and end's
// time of day is not after upper. Dates are ignored.
func Within(start, end time.Time, lower, upper Clock) bool {
	return ClockOf(start) >= lower && ClockOf(end) <= upper
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that only touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aEnd.After(bStart) && aStart.Before(bEnd)
}
