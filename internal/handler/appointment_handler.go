package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"doctor-appointments-api/internal/interval"
	"doctor-appointments-api/internal/model"
	"doctor-appointments-api/internal/scheduling"
)

// doctorID accepts 7 or "7".
type doctorID int64

func (id *doctorID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("doctor_id: %w", err)
	}
	*id = doctorID(n)
	return nil
}

type createAppointmentRequest struct {
	DoctorID  *doctorID `json:"doctor_id"`
	StartTime *string   `json:"start_time"`
	EndTime   *string   `json:"end_time"`
	Patient   string    `json:"patient"`
	Desc      string    `json:"desc"`
}

type slotResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toSlotResponse(s model.Slot) slotResponse {
	return slotResponse{
		StartTime: interval.FormatTimestamp(s.StartTime),
		EndTime:   interval.FormatTimestamp(s.EndTime),
	}
}

// CreateAppointment handles POST /appointments
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.StartTime == nil || req.EndTime == nil {
		writeError(w, http.StatusBadRequest, "Both start_time and end_time are required.")
		return
	}
	start, err := interval.ParseTimestamp(*req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time, expected ISO 8601.")
		return
	}
	end, err := interval.ParseTimestamp(*req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time, expected ISO 8601.")
		return
	}
	if req.DoctorID == nil {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}

	id, err := h.svc.Book(r.Context(), scheduling.BookRequest{
		DoctorID:    int64(*req.DoctorID),
		Start:       start,
		End:         end,
		Patient:     req.Patient,
		Description: req.Desc,
	})
	if err != nil {
		var verr *scheduling.ValidationError
		switch {
		case errors.Is(err, scheduling.ErrDoctorNotFound):
			writeError(w, http.StatusNotFound, "Doctor not found.")
		case errors.Is(err, scheduling.ErrOutOfHours):
			writeError(w, http.StatusBadRequest, "Appointment is outside doctor's working hours.")
		case errors.Is(err, scheduling.ErrConflict):
			writeError(w, http.StatusBadRequest, "Appointment conflicts with existing appointment.")
		case errors.Is(err, scheduling.ErrInvalidInterval):
			writeError(w, http.StatusBadRequest, "Appointment end_time must be after start_time.")
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, validationMessage(verr))
		default:
			h.internalError(w, r, "create appointment", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// ListAppointments handles GET /appointments/{doctorID}?start_time=&end_time=
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawStart, rawEnd := q.Get("start_time"), q.Get("end_time")
	if rawStart == "" || rawEnd == "" {
		writeError(w, http.StatusBadRequest, "Both start_time and end_time are required parameters.")
		return
	}
	var from, to time.Time
	var err error
	if from, err = interval.ParseTimestamp(rawStart); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time, expected ISO 8601.")
		return
	}
	if to, err = interval.ParseTimestamp(rawEnd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time, expected ISO 8601.")
		return
	}

	id, ok := doctorIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}

	slots, err := h.svc.ListAppointments(r.Context(), id, from, to)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrDoctorNotFound):
			writeError(w, http.StatusNotFound, "Doctor not found.")
		case errors.Is(err, scheduling.ErrMissingWindow):
			writeError(w, http.StatusBadRequest, "Both start_time and end_time are required parameters.")
		case errors.Is(err, scheduling.ErrOutOfHours):
			writeError(w, http.StatusBadRequest, "Requested time window is outside doctor's working hours.")
		case errors.Is(err, scheduling.ErrInvalidInterval):
			writeError(w, http.StatusBadRequest, "Requested end_time must be after start_time.")
		default:
			h.internalError(w, r, "list appointments", err)
		}
		return
	}

	out := make([]slotResponse, len(slots))
	for i, s := range slots {
		out[i] = toSlotResponse(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// FirstAvailable handles GET /appointments/first-available/{doctorID}
func (h *Handler) FirstAvailable(w http.ResponseWriter, r *http.Request) {
	id, ok := doctorIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}

	slot, err := h.svc.FirstAvailable(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrDoctorNotFound):
			writeError(w, http.StatusNotFound, "Doctor not found.")
		case errors.Is(err, scheduling.ErrNoSlot):
			writeError(w, http.StatusNotFound, "No available appointments found.")
		default:
			h.internalError(w, r, "first available", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}
