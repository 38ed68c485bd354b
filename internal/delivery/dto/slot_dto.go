package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateSlotRequest struct {
	DoctorID       uuid.UUID `json:"doctor_id" validate:"required"`
	Date           string    `json:"date" validate:"required"`       // Format: YYYY-MM-DD
	StartTime      string    `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime        string    `json:"end_time" validate:"required"`   // Format: HH:MM
	Language       string    `json:"language" validate:"omitempty,max=50"`
	Specialization string    `json:"specialization" validate:"omitempty,max=50"`
	City           string    `json:"city" validate:"omitempty,max=100"`
}

// SlotFilterRequest carries optional query filters for slot listings
type SlotFilterRequest struct {
	DoctorID  string `json:"doctor_id"`
	StartAt   string `json:"start_at"` // Format: YYYY-MM-DD
	EndAt     string `json:"end_at"`   // Format: YYYY-MM-DD
	Specialty string `json:"specialty"`
	City      string `json:"city"`
	Language  string `json:"language"`
}

// Response DTOs

type SlotResponse struct {
	ID             uuid.UUID  `json:"id"`
	ClinicID       uuid.UUID  `json:"clinic_id"`
	DoctorID       uuid.UUID  `json:"doctor_id"`
	Date           string     `json:"date"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Language       string     `json:"language"`
	Specialization string     `json:"specialization,omitempty"`
	City           string     `json:"city,omitempty"`
	Status         string     `json:"status"`
	BookedBy       *uuid.UUID `json:"booked_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}
