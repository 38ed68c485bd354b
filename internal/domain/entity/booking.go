package entity

import (
	"time"

	"github.com/google/uuid"
)

// Booking represents a confirmed reservation of a slot by a patient.
// A slot carries at most one non-cancelled booking at any time.
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	SlotID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"slot_id"`
	ConfirmedAt time.Time  `gorm:"autoCreateTime" json:"confirmed_at"`
	Cancelled   bool       `gorm:"not null;default:false;index" json:"cancelled"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Slot Slot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsCancelled checks if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Cancelled
}

// Cancel marks the booking cancelled at the given instant
func (b *Booking) Cancel(now time.Time) {
	b.Cancelled = true
	b.CancelledAt = &now
}
