package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"chazonBack/utils"
)

type UploadHandler struct {
	Storage *utils.Storage
}

// UploadImage accepts one multipart image and returns its public URL. Stewards
// attach the URL to an offering afterwards.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if h.Storage == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "STORAGE_DISABLED", "file storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileName := fmt.Sprintf("%d_%d_%s", userID, time.Now().UnixNano(), header.Filename)
	url, err := h.Storage.UploadFile(data, fileName, "services", contentType)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, map[string]string{"url": url})
}
