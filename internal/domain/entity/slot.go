package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus represents the lifecycle state of a slot
type SlotStatus string

const (
	SlotStatusOpen      SlotStatus = "open"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
	SlotStatusExpired   SlotStatus = "expired"
)

// Slot represents a single bookable appointment interval offered by a clinic.
// Times are stored as zero-padded HH:MM strings so lexicographic order matches
// temporal order, both in Go and in SQL comparisons.
type Slot struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DoctorID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_slots_doctor_date" json:"doctor_id"`
	Date           time.Time  `gorm:"type:date;not null;index:idx_slots_doctor_date" json:"date"`
	StartTime      string     `gorm:"type:time;not null" json:"start_time"`
	EndTime        string     `gorm:"type:time;not null" json:"end_time"`
	Language       string     `gorm:"type:varchar(50);not null" json:"language"`
	Specialization string     `gorm:"type:varchar(50)" json:"specialization,omitempty"`
	City           string     `gorm:"type:varchar(100)" json:"city,omitempty"`
	Status         SlotStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	BookedBy       *uuid.UUID `gorm:"type:uuid" json:"booked_by,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Booking       *Booking           `gorm:"foreignKey:SlotID" json:"booking,omitempty"`
	Confirmations []SlotConfirmation `gorm:"foreignKey:SlotID" json:"-"`
}

func (Slot) TableName() string {
	return "slots"
}

// IsOpen checks if the slot is still open for booking
func (s *Slot) IsOpen() bool {
	return s.Status == SlotStatusOpen
}

// StartAt combines the slot date and start time into an instant (UTC)
func (s *Slot) StartAt() time.Time {
	return CombineDateTime(s.Date, s.StartTime)
}

// DueForExpiry reports whether an open slot's start instant has passed
func (s *Slot) DueForExpiry(now time.Time) bool {
	return s.Status == SlotStatusOpen && !s.StartAt().After(now)
}

// OverlapsInterval checks this slot's [start, end) interval against another.
// Adjacent intervals (end == start) do not overlap.
func (s *Slot) OverlapsInterval(startTime, endTime string) bool {
	return IntervalsOverlap(s.StartTime, s.EndTime, startTime, endTime)
}

// IntervalsOverlap reports whether two half-open [start, end) HH:MM intervals
// intersect. Relies on lexicographic ordering of zero-padded HH:MM strings.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
