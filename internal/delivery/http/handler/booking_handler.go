package handler

import (
	"encoding/json"
	"net/http"

	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/delivery/http/middleware"
	"quickdoc/internal/usecase"
	"quickdoc/pkg/response"
	"quickdoc/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.Book(r.Context(), principal, req.SlotID)
	if err != nil {
		switch err {
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Slot is no longer available")
		case usecase.ErrSlotExpired:
			response.Gone(w, "Slot start time has passed")
		default:
			response.InternalServerError(w, "Failed to book slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slot booked successfully", booking)
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := h.bookingUsecase.Cancel(r.Context(), principal, bookingID); err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrNotBookingOwner:
			response.Forbidden(w, "Booking does not belong to this caller")
		case usecase.ErrBookingAlreadyCancelled:
			response.Conflict(w, "Booking is already cancelled")
		default:
			response.InternalServerError(w, "Failed to cancel booking")
		}
		return
	}

	response.NoContent(w)
}

func (h *BookingHandler) GetPatientBookings(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	bookings, err := h.bookingUsecase.ListPatientBookings(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) GetClinicBookings(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	bookings, err := h.bookingUsecase.ListClinicBookings(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}
