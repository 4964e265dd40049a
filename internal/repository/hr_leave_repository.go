package repository

import (
	"context"
	"time"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HRLeaveRepository struct {
	db *gorm.DB
}

func NewHRLeaveRepository(db *gorm.DB) *HRLeaveRepository {
	return &HRLeaveRepository{db: db}
}

func (r *HRLeaveRepository) Create(ctx context.Context, leave *domain.HRLeave) error {
	return r.db.WithContext(ctx).Omit("User").Create(leave).Error
}

func (r *HRLeaveRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.HRLeave, error) {
	var leave domain.HRLeave
	query := r.db.WithContext(ctx).Preload("User").Where("hr_leaves.id = ?", id)
	query = ApplyScope(ctx, query, domain.EntityHRLeaves)
	if err := query.First(&leave).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

func (r *HRLeaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.HRLeave{}, "id = ?", id).Error
}

// Decide moves a pending leave to status. It reports gorm.ErrRecordNotFound
// when the leave is no longer pending.
func (r *HRLeaveRepository) Decide(ctx context.Context, id uuid.UUID, status domain.LeaveStatus, decidedBy uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.HRLeave{}).
		Where("id = ? AND status = ?", id, domain.LeaveStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"approved_by": decidedBy,
			"decided_at":  at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns visible leave requests, newest first
func (r *HRLeaveRepository) List(ctx context.Context, filters domain.LeaveFilters) ([]domain.HRLeave, error) {
	var leaves []domain.HRLeave

	query := r.db.WithContext(ctx).Model(&domain.HRLeave{}).Preload("User")
	query = ApplyScope(ctx, query, domain.EntityHRLeaves)

	if filters.Status != "" {
		query = query.Where("hr_leaves.status = ?", filters.Status)
	}

	err := query.Order("hr_leaves.created_at DESC").Find(&leaves).Error
	return leaves, err
}
