package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

type NoteHandler struct {
	noteService *service.NoteService
	logger      *zap.Logger
}

func NewNoteHandler(noteService *service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// List godoc
// @Summary List notes
// @Tags Notes
// @Produce json
// @Param clientId query string false "Filter by client" format(uuid)
// @Success 200 {array} domain.NoteDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /notes [get]
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseOptionalUUID(w, r, "clientId")
	if !ok {
		return
	}

	notes, err := h.noteService.List(r.Context(), domain.NoteFilters{ClientID: clientID})
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list notes")
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

// Create godoc
// @Summary Create note
// @Tags Notes
// @Accept json
// @Produce json
// @Param request body domain.CreateNoteRequest true "Note data"
// @Success 201 {object} domain.NoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Client not found"
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.noteService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create note")
		return
	}

	w.Header().Set("Location", "/api/v1/notes/"+note.ID.String())
	respondJSON(w, http.StatusCreated, note)
}

// Update godoc
// @Summary Update note
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID" format(uuid)
// @Param request body domain.UpdateNoteRequest true "Note data"
// @Success 200 {object} domain.NoteDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /notes/{id} [put]
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "note")
	if !ok {
		return
	}

	var req domain.UpdateNoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.noteService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update note")
		return
	}

	respondJSON(w, http.StatusOK, note)
}

// Delete godoc
// @Summary Delete note
// @Tags Notes
// @Param id path string true "Note ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "note")
	if !ok {
		return
	}

	if err := h.noteService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
