package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	SlotID uuid.UUID `json:"slot_id" validate:"required"`
}

// Response DTOs

type BookingResponse struct {
	ID          uuid.UUID     `json:"id"`
	PatientID   uuid.UUID     `json:"patient_id"`
	SlotID      uuid.UUID     `json:"slot_id"`
	Slot        *SlotResponse `json:"slot,omitempty"`
	ConfirmedAt time.Time     `json:"confirmed_at"`
	Cancelled   bool          `json:"cancelled"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}
