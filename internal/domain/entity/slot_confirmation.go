package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlotConfirmation is a single-use token issued to a standby candidate,
// letting them claim the slot through the regular booking path.
type SlotConfirmation struct {
	Token     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"token"`
	SlotID    uuid.UUID `gorm:"type:uuid;not null;index" json:"slot_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Slot Slot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (SlotConfirmation) TableName() string {
	return "slot_confirmations"
}

// IsExpired checks if the token is past its validity window
func (c *SlotConfirmation) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
