package handler

import (
	"net/http"
	"strconv"

	"github.com/carebase/admin-api/internal/service"
	"go.uber.org/zap"
)

// ActivityHandler exposes the activity trail
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// List godoc
// @Summary List activity
// @Description Newest entries first. Admin only.
// @Tags Activity
// @Produce json
// @Param limit query int false "Max entries (max 200)" default(50)
// @Success 200 {array} domain.ActivityLogDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /activity [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit: must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.activityService.List(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list activity")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
