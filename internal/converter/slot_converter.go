package converter

import (
	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/domain/entity"
)

// SlotToResponse converts a Slot entity to SlotResponse DTO
func SlotToResponse(slot *entity.Slot) *dto.SlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.SlotResponse{
		ID:             slot.ID,
		ClinicID:       slot.ClinicID,
		DoctorID:       slot.DoctorID,
		Date:           slot.Date.Format(entity.DateLayout),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Language:       slot.Language,
		Specialization: slot.Specialization,
		City:           slot.City,
		Status:         string(slot.Status),
		BookedBy:       slot.BookedBy,
		CreatedAt:      slot.CreatedAt,
		UpdatedAt:      slot.UpdatedAt,
	}
}

// SlotsToResponses converts a slice of Slot entities to SlotResponse DTOs
func SlotsToResponses(slots []entity.Slot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i := range slots {
		responses[i] = *SlotToResponse(&slots[i])
	}
	return responses
}
