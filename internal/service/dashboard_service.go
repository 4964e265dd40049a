package service

import (
	"context"
	"fmt"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"go.uber.org/zap"
)

const recentActivityLimit = 10

// DashboardService builds the dashboard snapshot
type DashboardService struct {
	userRepo        *repository.UserRepository
	clientRepo      *repository.ClientRepository
	appointmentRepo *repository.AppointmentRepository
	activityRepo    *repository.ActivityLogRepository
	logger          *zap.Logger
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	clientRepo *repository.ClientRepository,
	appointmentRepo *repository.AppointmentRepository,
	activityRepo *repository.ActivityLogRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		userRepo:        userRepo,
		clientRepo:      clientRepo,
		appointmentRepo: appointmentRepo,
		activityRepo:    activityRepo,
		logger:          logger,
	}
}

// GetSnapshot returns entity totals and the latest activity. Totals are not
// narrowed to the caller's role; every signed-in user sees the same numbers.
func (s *DashboardService) GetSnapshot(ctx context.Context) (*domain.DashboardDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	var (
		dto domain.DashboardDTO
		err error
	)

	if dto.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if dto.TotalClients, err = s.clientRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	if dto.TotalAppointments, err = s.appointmentRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	entries, err := s.activityRepo.Recent(ctx, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}
	dto.RecentActivity = make([]domain.ActivityLogDTO, len(entries))
	for i := range entries {
		dto.RecentActivity[i] = mapper.ToActivityLogDTO(&entries[i])
	}

	return &dto, nil
}
