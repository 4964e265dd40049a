package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// List godoc
// @Summary List documents
// @Description Employees only see documents of clients assigned to them
// @Tags Documents
// @Produce json
// @Param clientId query string false "Filter by client" format(uuid)
// @Success 200 {array} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseOptionalUUID(w, r, "clientId")
	if !ok {
		return
	}

	docs, err := h.documentService.List(r.Context(), domain.DocumentFilters{ClientID: clientID})
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list documents")
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

// GetByID godoc
// @Summary Get document metadata
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Success 200 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "document")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get document")
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// Upload godoc
// @Summary Upload document
// @Description Stores the file and attaches it to the client
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param clientId formData string true "Client ID" format(uuid)
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Client not found"
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	clientID, err := uuid.Parse(r.FormValue("clientId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid clientId: must be a valid UUID")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(r.Context(), service.UploadInput{
		ClientID:    clientID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		respondServiceError(w, r, h.logger, err, "upload document")
		return
	}

	w.Header().Set("Location", "/api/v1/documents/"+doc.ID.String())
	respondJSON(w, http.StatusCreated, doc)
}

// Delete godoc
// @Summary Delete document
// @Description Removes the record and the stored file
// @Tags Documents
// @Param id path string true "Document ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "document")
	if !ok {
		return
	}

	if err := h.documentService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
