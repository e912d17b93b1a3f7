package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/repairtrack-api/internal/application/notify"
	"github.com/repairtrack-api/internal/domain"
)

// NotificationHandler handles push notification endpoints.
type NotificationHandler struct {
	svc notify.Service
}

func NewNotificationHandler(svc notify.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Broadcast fans a notification out to every customer with repair history
// under a business.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req notify.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	report, err := h.svc.Broadcast(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deliveryEnvelope(report))
}

// StatusUpdate notifies every device behind one mobile number. It never
// returns a transport-level failure: preconditions and errors come back as a
// structured {success:false} body.
func (h *NotificationHandler) StatusUpdate(w http.ResponseWriter, r *http.Request) {
	var req notify.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, MessageEnvelope{Error: "invalid request body"})
		return
	}
	report, err := h.svc.StatusUpdate(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeJSON(w, http.StatusOK, MessageEnvelope{Error: "Missing required fields"})
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, deliveryEnvelope(report))
}
