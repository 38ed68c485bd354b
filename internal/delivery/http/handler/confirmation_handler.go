package handler

import (
	"net/http"

	"quickdoc/internal/usecase"
	"quickdoc/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ConfirmationHandler struct {
	confirmationUsecase usecase.ConfirmationUsecase
}

func NewConfirmationHandler(confirmationUsecase usecase.ConfirmationUsecase) *ConfirmationHandler {
	return &ConfirmationHandler{
		confirmationUsecase: confirmationUsecase,
	}
}

func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token, err := uuid.Parse(vars["token"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid confirmation token", nil)
		return
	}

	booking, err := h.confirmationUsecase.Confirm(r.Context(), token)
	if err != nil {
		switch err {
		case usecase.ErrTokenInvalid:
			response.NotFound(w, "Confirmation token not found")
		case usecase.ErrTokenUsed:
			response.Conflict(w, "Confirmation token already used")
		case usecase.ErrTokenExpired:
			response.Gone(w, "Confirmation token expired")
		case usecase.ErrSlotNotFound:
			response.NotFound(w, "Slot not found")
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Slot is no longer available")
		case usecase.ErrSlotExpired:
			response.Gone(w, "Slot start time has passed")
		default:
			response.InternalServerError(w, "Failed to confirm slot")
		}
		return
	}

	response.Success(w, http.StatusOK, "Slot booked successfully", booking)
}
