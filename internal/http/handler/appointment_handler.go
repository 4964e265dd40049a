package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
	logger             *zap.Logger
}

func NewAppointmentHandler(appointmentService *service.AppointmentService, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		logger:             logger,
	}
}

// List godoc
// @Summary List appointments
// @Description Newest first. Employees only see appointments assigned to them.
// @Tags Appointments
// @Produce json
// @Param status query string false "Filter by status" Enums(scheduled, completed, cancelled, no_show)
// @Param clientId query string false "Filter by client" format(uuid)
// @Success 200 {array} domain.AppointmentDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /appointments [get]
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := parseOptionalUUID(w, r, "clientId")
	if !ok {
		return
	}
	filters := domain.AppointmentFilters{
		Status:   domain.AppointmentStatus(r.URL.Query().Get("status")),
		ClientID: clientID,
	}

	appts, err := h.appointmentService.List(r.Context(), filters)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list appointments")
		return
	}

	respondJSON(w, http.StatusOK, appts)
}

// GetByID godoc
// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID" format(uuid)
// @Success 200 {object} domain.AppointmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "appointment")
	if !ok {
		return
	}

	appt, err := h.appointmentService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get appointment")
		return
	}

	respondJSON(w, http.StatusOK, appt)
}

// Create godoc
// @Summary Create appointment
// @Description The assignee defaults to the caller. Employees may only assign themselves.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body domain.CreateAppointmentRequest true "Appointment data"
// @Success 201 {object} domain.AppointmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Client not found"
// @Security BearerAuth
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAppointmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	appt, err := h.appointmentService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create appointment")
		return
	}

	w.Header().Set("Location", "/api/v1/appointments/"+appt.ID.String())
	respondJSON(w, http.StatusCreated, appt)
}

// Update godoc
// @Summary Update appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID" format(uuid)
// @Param request body domain.UpdateAppointmentRequest true "Appointment data"
// @Success 200 {object} domain.AppointmentDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "appointment")
	if !ok {
		return
	}

	var req domain.UpdateAppointmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	appt, err := h.appointmentService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update appointment")
		return
	}

	respondJSON(w, http.StatusOK, appt)
}

// Delete godoc
// @Summary Delete appointment
// @Tags Appointments
// @Param id path string true "Appointment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "appointment")
	if !ok {
		return
	}

	if err := h.appointmentService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete appointment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
