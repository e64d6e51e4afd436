package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"doctor-appointments-api/internal/middleware"
	"doctor-appointments-api/internal/scheduling"
)

type Handler struct {
	svc    *scheduling.Service
	logger *zap.Logger
}

func New(svc *scheduling.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

type errorResponse struct {
	Message string `json:"message"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// internalError logs err and answers 500 without leaking details.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.RequestID(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func validationMessage(verr *scheduling.ValidationError) string {
	if verr.Reason == "required" {
		return "Missing required fields."
	}
	return "Invalid " + verr.Error() + "."
}

// doctorIDParam reads {doctorID}. ok is false for anything that is not a
// positive integer; callers report that as an unknown doctor.
func doctorIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "doctorID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
