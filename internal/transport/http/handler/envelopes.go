package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/repairtrack-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DeliveryEnvelope wraps notification dispatch responses.
type DeliveryEnvelope struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	Error        string               `json:"error,omitempty"`
	TotalTokens  int                  `json:"totalTokens"`
	TotalSuccess int                  `json:"totalSuccess"`
	TotalFailure int                  `json:"totalFailure"`
	Results      []domain.BatchResult `json:"results"`
}

func deliveryEnvelope(report *domain.DeliveryReport) DeliveryEnvelope {
	return DeliveryEnvelope{
		Success:      true,
		Message:      report.Message,
		TotalTokens:  report.TotalTokens,
		TotalSuccess: report.TotalSuccess,
		TotalFailure: report.TotalFailure,
		Results:      report.BatchResults,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
