package entity

import (
	"time"
)

const (
	// TimeOfDayLayout is the canonical HH:MM layout for slot and
	// preference time fields.
	TimeOfDayLayout = "15:04"

	// DateLayout is the canonical calendar date layout.
	DateLayout = "2006-01-02"
)

// ValidTimeOfDay reports whether s is a zero-padded HH:MM string.
func ValidTimeOfDay(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(TimeOfDayLayout, s)
	return err == nil
}

// CombineDateTime combines a calendar date with an HH:MM time of day into an
// instant in UTC. A malformed time of day maps to midnight.
func CombineDateTime(date time.Time, timeOfDay string) time.Time {
	t, err := time.Parse(TimeOfDayLayout, timeOfDay)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// TimeOfDayInRange checks start <= t <= end over HH:MM strings (inclusive).
func TimeOfDayInRange(t, start, end string) bool {
	return start <= t && t <= end
}

// SameOrBetweenDates checks start <= d <= end comparing calendar days only.
func SameOrBetweenDates(d, start, end time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	return !day.Before(start.Truncate(24*time.Hour)) && !day.After(end.Truncate(24*time.Hour))
}
