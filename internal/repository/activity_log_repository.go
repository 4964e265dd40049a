package repository

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"gorm.io/gorm"
)

// ActivityLogRepository handles the append-only activity trail.
//
// Index recommendations:
// - CREATE INDEX idx_activity_logs_created_at ON activity_logs(created_at DESC);
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

// Recent returns the newest limit entries regardless of caller scope
func (r *ActivityLogRepository) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	var entries []domain.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// List returns the newest limit entries visible to the caller
func (r *ActivityLogRepository) List(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	var entries []domain.ActivityLog
	query := r.db.WithContext(ctx).Model(&domain.ActivityLog{}).Preload("User")
	query = ApplyScope(ctx, query, domain.EntityActivityLogs)
	err := query.Order("activity_logs.created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
