package entity

import "github.com/google/uuid"

// SlotFilter is a domain-level filter for querying slots.
// Used by repository layer to avoid coupling with delivery DTOs.
type SlotFilter struct {
	DoctorID  *uuid.UUID
	ClinicID  *uuid.UUID
	StartAt   string // Format: YYYY-MM-DD
	EndAt     string // Format: YYYY-MM-DD
	Specialty string
	City      string
	Language  string
	Status    SlotStatus
}
