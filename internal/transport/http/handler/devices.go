package handler

import (
	"encoding/json"
	"net/http"

	"github.com/repairtrack-api/internal/application/devices"
	"github.com/repairtrack-api/internal/transport/http/middleware"
)

// DeviceHandler handles push token registration for the calling user.
type DeviceHandler struct {
	svc devices.Service
}

func NewDeviceHandler(svc devices.Service) *DeviceHandler { return &DeviceHandler{svc: svc} }

type registerTokenRequest struct {
	Token string `json:"token"`
}

func (h *DeviceHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.RegisterToken(r.Context(), claims.UID, req.Token); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Token registered"})
}
