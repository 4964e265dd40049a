package service

import (
	"context"
	"fmt"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ActivityService writes and reads the activity trail
type ActivityService struct {
	activityRepo *repository.ActivityLogRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityLogRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Record appends an entry for the caller. Failures are logged, never returned,
// so a completed mutation is not reported as failed.
func (s *ActivityService) Record(ctx context.Context, actionType string, targetID uuid.UUID, details string, metadata map[string]interface{}) {
	entry := &domain.ActivityLog{
		ActionType: actionType,
		TargetID:   targetID.String(),
		Details:    details,
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		entry.UserID = &userCtx.UserID
	}

	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("action_type", actionType),
			zap.String("target_id", entry.TargetID),
			zap.Error(err))
	}
}

// List returns the newest entries the caller may read
func (s *ActivityService) List(ctx context.Context, limit int) ([]domain.ActivityLogDTO, error) {
	if _, err := authorize(ctx, domain.EntityActivityLogs, domain.ActionRead); err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := s.activityRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	dtos := make([]domain.ActivityLogDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToActivityLogDTO(&entries[i])
	}
	return dtos, nil
}
