package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

type HRLeaveHandler struct {
	leaveService *service.HRLeaveService
	logger       *zap.Logger
}

func NewHRLeaveHandler(leaveService *service.HRLeaveService, logger *zap.Logger) *HRLeaveHandler {
	return &HRLeaveHandler{
		leaveService: leaveService,
		logger:       logger,
	}
}

// List godoc
// @Summary List leave requests
// @Description Employees only see their own requests
// @Tags HR
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Success 200 {array} domain.HRLeaveDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /hr/leaves [get]
func (h *HRLeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := domain.LeaveFilters{Status: domain.LeaveStatus(r.URL.Query().Get("status"))}

	leaves, err := h.leaveService.List(r.Context(), filters)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list leave requests")
		return
	}

	respondJSON(w, http.StatusOK, leaves)
}

// GetByID godoc
// @Summary Get leave request
// @Tags HR
// @Produce json
// @Param id path string true "Leave request ID" format(uuid)
// @Success 200 {object} domain.HRLeaveDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /hr/leaves/{id} [get]
func (h *HRLeaveHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "leave request")
	if !ok {
		return
	}

	leave, err := h.leaveService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get leave request")
		return
	}

	respondJSON(w, http.StatusOK, leave)
}

// Create godoc
// @Summary Request leave
// @Description Files a pending leave request for the caller
// @Tags HR
// @Accept json
// @Produce json
// @Param request body domain.CreateLeaveRequest true "Leave data"
// @Success 201 {object} domain.HRLeaveDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /hr/leaves [post]
func (h *HRLeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeaveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	leave, err := h.leaveService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create leave request")
		return
	}

	w.Header().Set("Location", "/api/v1/hr/leaves/"+leave.ID.String())
	respondJSON(w, http.StatusCreated, leave)
}

// Approve godoc
// @Summary Approve leave request
// @Description Admins and managers only. The request must be pending.
// @Tags HR
// @Produce json
// @Param id path string true "Leave request ID" format(uuid)
// @Success 200 {object} domain.HRLeaveDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already decided"
// @Security BearerAuth
// @Router /hr/leaves/{id}/approve [post]
func (h *HRLeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "leave request")
	if !ok {
		return
	}

	leave, err := h.leaveService.Approve(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "approve leave request")
		return
	}

	respondJSON(w, http.StatusOK, leave)
}

// Reject godoc
// @Summary Reject leave request
// @Description Admins and managers only. The request must be pending.
// @Tags HR
// @Produce json
// @Param id path string true "Leave request ID" format(uuid)
// @Success 200 {object} domain.HRLeaveDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Already decided"
// @Security BearerAuth
// @Router /hr/leaves/{id}/reject [post]
func (h *HRLeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "leave request")
	if !ok {
		return
	}

	leave, err := h.leaveService.Reject(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "reject leave request")
		return
	}

	respondJSON(w, http.StatusOK, leave)
}

// Delete godoc
// @Summary Delete leave request
// @Tags HR
// @Param id path string true "Leave request ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /hr/leaves/{id} [delete]
func (h *HRLeaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "leave request")
	if !ok {
		return
	}

	if err := h.leaveService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete leave request")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
