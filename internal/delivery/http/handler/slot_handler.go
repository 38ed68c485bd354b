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

type SlotHandler struct {
	slotUsecase usecase.SlotUsecase
	validator   *validator.CustomValidator
}

func NewSlotHandler(slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *SlotHandler {
	return &SlotHandler{
		slotUsecase: slotUsecase,
		validator:   validator,
	}
}

func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.slotUsecase.CreateSlot(r.Context(), principal, &req)
	if err != nil {
		switch err {
		case usecase.ErrSlotOverlap:
			response.Conflict(w, "Slot overlaps an existing slot for this doctor on this date")
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidTimeRange:
			response.Error(w, http.StatusBadRequest, "Invalid time range, use HH:MM with start before end", nil)
		default:
			response.InternalServerError(w, "Failed to create slot")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Slot created successfully", slot)
}

func (h *SlotHandler) GetClinicSlots(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	slots, err := h.slotUsecase.ListClinicSlots(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

func (h *SlotHandler) GetOpenSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &dto.SlotFilterRequest{
		DoctorID:  query.Get("doctor_id"),
		StartAt:   query.Get("start_at"),
		EndAt:     query.Get("end_at"),
		Specialty: query.Get("specialty"),
		City:      query.Get("city"),
		Language:  query.Get("language"),
	}

	slots, err := h.slotUsecase.ListOpenSlots(r.Context(), filter)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidDoctorID:
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		default:
			response.InternalServerError(w, "Failed to get slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slots retrieved successfully", slots)
}

func (h *SlotHandler) CancelSlot(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	vars := mux.Vars(r)
	slotID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	if err := h.slotUsecase.CancelSlot(r.Context(), principal, slotID); err != nil {
		switch err {
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrNotSlotOwner:
			response.Forbidden(w, "Slot does not belong to this clinic")
		case usecase.ErrSlotNotOpen:
			response.Conflict(w, "Only open slots can be cancelled")
		default:
			response.InternalServerError(w, "Failed to cancel slot")
		}
		return
	}

	response.NoContent(w)
}

func (h *SlotHandler) ReopenSlot(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	vars := mux.Vars(r)
	slotID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	slot, err := h.slotUsecase.ReopenSlot(r.Context(), principal, slotID)
	if err != nil {
		switch err {
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrNotSlotOwner:
			response.Forbidden(w, "Slot does not belong to this clinic")
		case usecase.ErrSlotNotCancelled:
			response.Conflict(w, "Only cancelled slots can be reopened")
		default:
			response.InternalServerError(w, "Failed to reopen slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slot reopened successfully", slot)
}
