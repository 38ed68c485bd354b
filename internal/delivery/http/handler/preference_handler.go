package handler

import (
	"encoding/json"
	"net/http"

	"quickdoc/internal/delivery/dto"
	"quickdoc/internal/delivery/http/middleware"
	"quickdoc/internal/usecase"
	"quickdoc/pkg/response"
	"quickdoc/pkg/validator"
)

type PreferenceHandler struct {
	preferenceUsecase usecase.PreferenceUsecase
	validator         *validator.CustomValidator
}

func NewPreferenceHandler(preferenceUsecase usecase.PreferenceUsecase, validator *validator.CustomValidator) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceUsecase: preferenceUsecase,
		validator:         validator,
	}
}

func (h *PreferenceHandler) GetStandby(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	pref, err := h.preferenceUsecase.GetStandby(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get standby preference")
		return
	}

	response.Success(w, http.StatusOK, "Standby preference retrieved successfully", pref)
}

func (h *PreferenceHandler) SetStandby(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.StandbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pref, err := h.preferenceUsecase.SetStandby(r.Context(), principal, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidPreference:
			response.UnprocessableEntity(w, "Invalid standby preference ranges", nil)
		default:
			response.InternalServerError(w, "Failed to save standby preference")
		}
		return
	}

	response.Success(w, http.StatusOK, "Standby preference saved successfully", pref)
}

func (h *PreferenceHandler) GetDnd(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	pref, err := h.preferenceUsecase.GetDnd(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get DND preference")
		return
	}

	response.Success(w, http.StatusOK, "DND preference retrieved successfully", pref)
}

func (h *PreferenceHandler) SetDnd(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.DndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pref, err := h.preferenceUsecase.SetDnd(r.Context(), principal, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidPreference:
			response.UnprocessableEntity(w, "Invalid DND preference", nil)
		default:
			response.InternalServerError(w, "Failed to save DND preference")
		}
		return
	}

	response.Success(w, http.StatusOK, "DND preference saved successfully", pref)
}
