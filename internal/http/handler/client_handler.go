package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// List godoc
// @Summary List clients
// @Description Employees only see clients assigned to them
// @Tags Clients
// @Produce json
// @Param search query string false "Search by name or email"
// @Param status query string false "Filter by status" Enums(active, inactive, pending)
// @Param sortBy query string false "Sort field" Enums(name, status, createdAt, serviceStartDate)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {array} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := domain.ClientFilters{
		Status: domain.ClientStatus(q.Get("status")),
		Search: q.Get("search"),
	}
	sort := repository.SortConfig{
		Field: q.Get("sortBy"),
		Order: repository.ParseSortOrder(q.Get("sortOrder")),
	}

	clients, err := h.clientService.List(r.Context(), filters, sort)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list clients")
		return
	}

	respondJSON(w, http.StatusOK, clients)
}

// GetByID godoc
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "client")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Profile godoc
// @Summary Get client profile
// @Description The client with its documents and appointments, as visible to the caller
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 200 {object} domain.ClientProfileDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id}/profile [get]
func (h *ClientHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "client")
	if !ok {
		return
	}

	profile, err := h.clientService.Profile(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get client profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Create godoc
// @Summary Create client
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create client")
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+client.ID.String())
	respondJSON(w, http.StatusCreated, client)
}

// Update godoc
// @Summary Update client
// @Description Employees may edit their own clients but cannot change the assignment
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param request body domain.UpdateClientRequest true "Client data"
// @Success 200 {object} domain.ClientDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "client")
	if !ok {
		return
	}

	var req domain.UpdateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Tags Clients
// @Param id path string true "Client ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "client")
	if !ok {
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
