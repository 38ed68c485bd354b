package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{"identical intervals", "09:00", "09:30", "09:00", "09:30", true},
		{"partial overlap at end", "09:00", "09:30", "09:15", "09:45", true},
		{"partial overlap at start", "09:15", "09:45", "09:00", "09:30", true},
		{"containment", "09:00", "10:00", "09:15", "09:30", true},
		{"adjacent back to back", "09:00", "09:30", "09:30", "10:00", false},
		{"adjacent reversed", "09:30", "10:00", "09:00", "09:30", false},
		{"disjoint", "09:00", "09:30", "11:00", "11:30", false},
		{"one minute overlap", "09:00", "09:31", "09:30", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IntervalsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric
			assert.Equal(t, tt.expected, IntervalsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestSlotOverlapsInterval(t *testing.T) {
	slot := &Slot{StartTime: "10:00", EndTime: "10:30"}

	assert.True(t, slot.OverlapsInterval("10:15", "10:45"))
	assert.False(t, slot.OverlapsInterval("10:30", "11:00"))
	assert.False(t, slot.OverlapsInterval("09:30", "10:00"))
}

func TestSlotStartAt(t *testing.T) {
	slot := &Slot{
		Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "09:30",
	}

	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), slot.StartAt())
}

func TestSlotDueForExpiry(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	slot := &Slot{Date: date, StartTime: "09:30", Status: SlotStatusOpen}

	assert.False(t, slot.DueForExpiry(time.Date(2026, 3, 14, 9, 29, 0, 0, time.UTC)))
	// Start instant itself is already overdue
	assert.True(t, slot.DueForExpiry(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)))
	assert.True(t, slot.DueForExpiry(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))

	booked := &Slot{Date: date, StartTime: "09:30", Status: SlotStatusBooked}
	assert.False(t, booked.DueForExpiry(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestValidTimeOfDay(t *testing.T) {
	assert.True(t, ValidTimeOfDay("00:00"))
	assert.True(t, ValidTimeOfDay("09:30"))
	assert.True(t, ValidTimeOfDay("23:59"))

	assert.False(t, ValidTimeOfDay("9:30"))
	assert.False(t, ValidTimeOfDay("24:00"))
	assert.False(t, ValidTimeOfDay("09:60"))
	assert.False(t, ValidTimeOfDay("0930"))
	assert.False(t, ValidTimeOfDay(""))
}

func TestTimeOfDayInRange(t *testing.T) {
	assert.True(t, TimeOfDayInRange("09:30", "09:00", "12:00"))
	assert.True(t, TimeOfDayInRange("09:00", "09:00", "12:00"))
	assert.True(t, TimeOfDayInRange("12:00", "09:00", "12:00"))
	assert.False(t, TimeOfDayInRange("12:01", "09:00", "12:00"))
	assert.False(t, TimeOfDayInRange("08:59", "09:00", "12:00"))
}

func TestSameOrBetweenDates(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameOrBetweenDates(start, start, end))
	assert.True(t, SameOrBetweenDates(end, start, end))
	assert.True(t, SameOrBetweenDates(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), start, end))
	assert.False(t, SameOrBetweenDates(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start, end))
	assert.False(t, SameOrBetweenDates(time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), start, end))
}
