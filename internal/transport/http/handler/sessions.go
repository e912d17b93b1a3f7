package handler

import (
	"net/http"

	"github.com/repairtrack-api/internal/application/staff"
	"github.com/repairtrack-api/internal/transport/http/middleware"
)

// SessionHandler handles authentication-session endpoints.
type SessionHandler struct {
	svc staff.Service
}

func NewSessionHandler(svc staff.Service) *SessionHandler { return &SessionHandler{svc: svc} }

// SignOutAll revokes the caller's refresh tokens on every device.
func (h *SessionHandler) SignOutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.SignOutAllDevices(r.Context(), claims.UID); err != nil {
		writeJSON(w, http.StatusOK, MessageEnvelope{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Signed out from all devices"})
}
