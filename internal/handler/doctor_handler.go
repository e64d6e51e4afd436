package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"doctor-appointments-api/internal/scheduling"
)

type registerDoctorRequest struct {
	Name              string `json:"name"`
	WorkingHoursStart string `json:"working_hours_start"`
	WorkingHoursEnd   string `json:"working_hours_end"`
}

type doctorResponse struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	WorkingHoursStart string `json:"working_hours_start"`
	WorkingHoursEnd   string `json:"working_hours_end"`
}

// RegisterDoctor handles POST /doctors
func (h *Handler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	var req registerDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	id, err := h.svc.RegisterDoctor(r.Context(), req.Name, req.WorkingHoursStart, req.WorkingHoursEnd)
	if err != nil {
		var verr *scheduling.ValidationError
		if errors.As(err, &verr) {
			h.logger.Debug("doctor rejected", zap.Error(err))
			writeError(w, http.StatusBadRequest, validationMessage(verr))
			return
		}
		h.internalError(w, r, "register doctor", err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// GetDoctor handles GET /doctors/{doctorID}
func (h *Handler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := doctorIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}
	d, err := h.svc.Doctor(r.Context(), id)
	if err != nil {
		if errors.Is(err, scheduling.ErrDoctorNotFound) {
			writeError(w, http.StatusNotFound, "Doctor not found.")
			return
		}
		h.internalError(w, r, "get doctor", err)
		return
	}
	writeJSON(w, http.StatusOK, doctorResponse{
		ID:                d.ID,
		Name:              d.Name,
		WorkingHoursStart: d.WorkingHoursStart.String(),
		WorkingHoursEnd:   d.WorkingHoursEnd.String(),
	})
}
