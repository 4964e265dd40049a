package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Get dashboard snapshot
// @Description Organisation-wide totals of users, clients and appointments plus the ten newest activity entries.
// @Description Totals are not narrowed by the caller's role.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.dashboardService.GetSnapshot(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "load dashboard")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
