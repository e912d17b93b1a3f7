package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/repairtrack-api/internal/pkg/id"
)

// ImageStore is the minimal interface the image upload endpoint requires
// from an object store.
type ImageStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
}

// ImageHandler accepts notification image uploads and returns a public URL
// usable as imageUrl in notification requests.
type ImageHandler struct {
	store ImageStore
}

func NewImageHandler(store ImageStore) *ImageHandler { return &ImageHandler{store: store} }

type uploadImageRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64-encoded image bytes
}

type uploadImageResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" || req.Data == "" {
		writeError(w, http.StatusBadRequest, "filename and data are required")
		return
	}
	key := fmt.Sprintf("notifications/%s%s", id.New(), path.Ext(req.Filename))
	url, err := h.store.UploadBase64(r.Context(), key, req.Data)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadImageResponse{Success: true, ImageURL: url})
}
