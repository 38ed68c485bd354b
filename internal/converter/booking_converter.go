package converter

import (
	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:          booking.ID,
		PatientID:   booking.PatientID,
		SlotID:      booking.SlotID,
		ConfirmedAt: booking.ConfirmedAt,
		Cancelled:   booking.Cancelled,
		CancelledAt: booking.CancelledAt,
	}

	// Include slot info if preloaded
	if booking.Slot.ID != uuid.Nil {
		response.Slot = SlotToResponse(&booking.Slot)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
