package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/carebase/admin-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler serves objects from local storage at their public URL.
// Cloud deployments link to the blob URL directly and never mount it.
type FileHandler struct {
	store  storage.Storage
	logger *zap.Logger
}

func NewFileHandler(store storage.Storage, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		store:  store,
		logger: logger,
	}
}

// Serve godoc
// @Summary Download stored file
// @Tags Documents
// @Produce application/octet-stream
// @Param key path string true "Object key"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Router /files/{key} [get]
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	reader, err := h.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			respondWithError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("failed to open file", zap.Error(err), zap.String("key", key))
		respondWithError(w, http.StatusInternalServerError, "Failed to open file")
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": key}))
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream file", zap.Error(err), zap.String("key", key))
	}
}
