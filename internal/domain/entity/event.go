package entity

import "github.com/google/uuid"

// SlotOpenedEvent signals that a slot has become bookable, either on
// initial creation or on re-open after a cancellation. EventID is the
// dedup key: re-delivering the same event has no additional effect.
type SlotOpenedEvent struct {
	EventID uuid.UUID `json:"event_id"`
	SlotID  uuid.UUID `json:"slot_id"`
}

// NewSlotOpenedEvent mints an event with a fresh identifier
func NewSlotOpenedEvent(slotID uuid.UUID) SlotOpenedEvent {
	return SlotOpenedEvent{
		EventID: uuid.New(),
		SlotID:  slotID,
	}
}

// Candidate is a (patient, slot) pair selected for notification dispatch
type Candidate struct {
	PatientID uuid.UUID `json:"patient_id"`
	SlotID    uuid.UUID `json:"slot_id"`
	Token     uuid.UUID `json:"token"`
}
