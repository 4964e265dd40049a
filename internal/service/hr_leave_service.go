package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HRLeaveService handles leave requests and their review
type HRLeaveService struct {
	leaveRepo *repository.HRLeaveRepository
	activity  *ActivityService
	logger    *zap.Logger
	now       func() time.Time
}

func NewHRLeaveService(leaveRepo *repository.HRLeaveRepository, activity *ActivityService, logger *zap.Logger) *HRLeaveService {
	return &HRLeaveService{
		leaveRepo: leaveRepo,
		activity:  activity,
		logger:    logger,
		now:       time.Now,
	}
}

// Create files a leave request for the caller. Status always starts as pending.
func (s *HRLeaveService) Create(ctx context.Context, req *domain.CreateLeaveRequest) (*domain.HRLeaveDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityHRLeaves, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	from, err := mapper.ParseDate(req.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	to, err := mapper.ParseDate(req.DateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if time.Time(to).Before(time.Time(from)) {
		return nil, ErrInvalidDateRange
	}

	leave := &domain.HRLeave{
		UserID:   userCtx.UserID,
		Type:     req.Type,
		DateFrom: from,
		DateTo:   to,
		Reason:   req.Reason,
		Status:   domain.LeaveStatusPending,
	}
	if err := s.leaveRepo.Create(ctx, leave); err != nil {
		return nil, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.activity.Record(ctx, domain.ActionLeaveRequested, leave.ID,
		fmt.Sprintf("%s leave requested from %s to %s", leave.Type, req.DateFrom, req.DateTo), nil)

	dto := mapper.ToHRLeaveDTO(leave)
	return &dto, nil
}

func (s *HRLeaveService) List(ctx context.Context, filters domain.LeaveFilters) ([]domain.HRLeaveDTO, error) {
	if _, err := authorize(ctx, domain.EntityHRLeaves, domain.ActionRead); err != nil {
		return nil, err
	}
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filters.Status)
	}

	leaves, err := s.leaveRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	dtos := make([]domain.HRLeaveDTO, len(leaves))
	for i := range leaves {
		dtos[i] = mapper.ToHRLeaveDTO(&leaves[i])
	}
	return dtos, nil
}

func (s *HRLeaveService) GetByID(ctx context.Context, id uuid.UUID) (*domain.HRLeaveDTO, error) {
	if _, err := authorize(ctx, domain.EntityHRLeaves, domain.ActionRead); err != nil {
		return nil, err
	}

	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("leave request", err)
	}
	dto := mapper.ToHRLeaveDTO(leave)
	return &dto, nil
}

// Approve moves a pending leave to approved with the caller as approver
func (s *HRLeaveService) Approve(ctx context.Context, id uuid.UUID) (*domain.HRLeaveDTO, error) {
	return s.decide(ctx, id, domain.LeaveStatusApproved)
}

// Reject moves a pending leave to rejected with the caller as approver
func (s *HRLeaveService) Reject(ctx context.Context, id uuid.UUID) (*domain.HRLeaveDTO, error) {
	return s.decide(ctx, id, domain.LeaveStatusRejected)
}

func (s *HRLeaveService) decide(ctx context.Context, id uuid.UUID, next domain.LeaveStatus) (*domain.HRLeaveDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityHRLeaves, domain.ActionApprove)
	if err != nil {
		return nil, err
	}

	leave, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("leave request", err)
	}
	if !leave.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidTransition, leave.Status)
	}

	at := s.now().UTC()
	if err := s.leaveRepo.Decide(ctx, id, next, userCtx.UserID, at); err != nil {
		// another reviewer got there first
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("failed to update leave request: %w", err)
	}

	leave.Status = next
	leave.ApprovedBy = &userCtx.UserID
	leave.DecidedAt = &at

	action := domain.ActionLeaveApproved
	if next == domain.LeaveStatusRejected {
		action = domain.ActionLeaveRejected
	}
	s.activity.Record(ctx, action, leave.ID, fmt.Sprintf("Leave request was %s", next), map[string]interface{}{"userId": leave.UserID.String()})

	s.logger.Info("leave request decided",
		zap.String("leave_id", id.String()),
		zap.String("status", string(next)),
		zap.String("decided_by", userCtx.UserID.String()))

	dto := mapper.ToHRLeaveDTO(leave)
	return &dto, nil
}

func (s *HRLeaveService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authorize(ctx, domain.EntityHRLeaves, domain.ActionDelete); err != nil {
		return err
	}

	if _, err := s.leaveRepo.GetByID(ctx, id); err != nil {
		return lookupError("leave request", err)
	}
	if err := s.leaveRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}

	s.activity.Record(ctx, domain.ActionLeaveDeleted, id, "Leave request was deleted", nil)
	return nil
}
