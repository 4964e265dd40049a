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
)

type AppointmentService struct {
	appointmentRepo *repository.AppointmentRepository
	clientRepo      *repository.ClientRepository
	userRepo        *repository.UserRepository
	activity        *ActivityService
	logger          *zap.Logger
}

func NewAppointmentService(
	appointmentRepo *repository.AppointmentRepository,
	clientRepo *repository.ClientRepository,
	userRepo *repository.UserRepository,
	activity *ActivityService,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		activity:        activity,
		logger:          logger,
	}
}

func (s *AppointmentService) Create(ctx context.Context, req *domain.CreateAppointmentRequest) (*domain.AppointmentDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityAppointments, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	appt := &domain.Appointment{Status: req.Status, Notes: req.Notes}
	if appt.Status == "" {
		appt.Status = domain.AppointmentStatusScheduled
	}
	if err := s.apply(ctx, userCtx, appt, req.ClientID, req.UserID, req.Date, req.Time); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.activity.Record(ctx, domain.ActionAppointmentCreated, appt.ID,
		fmt.Sprintf("Appointment on %s was created", mapper.FormatDate(appt.Date)), nil)

	dto := mapper.ToAppointmentDTO(appt)
	return &dto, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AppointmentDTO, error) {
	if _, err := authorize(ctx, domain.EntityAppointments, domain.ActionRead); err != nil {
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("appointment", err)
	}
	dto := mapper.ToAppointmentDTO(appt)
	return &dto, nil
}

func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAppointmentRequest) (*domain.AppointmentDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityAppointments, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("appointment", err)
	}

	appt.Status = req.Status
	appt.Notes = req.Notes
	if err := s.apply(ctx, userCtx, appt, req.ClientID, req.UserID, req.Date, req.Time); err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Update(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.activity.Record(ctx, domain.ActionAppointmentUpdated, appt.ID,
		fmt.Sprintf("Appointment on %s was updated", mapper.FormatDate(appt.Date)), nil)

	dto := mapper.ToAppointmentDTO(appt)
	return &dto, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authorize(ctx, domain.EntityAppointments, domain.ActionDelete); err != nil {
		return err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return lookupError("appointment", err)
	}
	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.activity.Record(ctx, domain.ActionAppointmentDeleted, id,
		fmt.Sprintf("Appointment on %s was deleted", mapper.FormatDate(appt.Date)), nil)
	return nil
}

func (s *AppointmentService) List(ctx context.Context, filters domain.AppointmentFilters) ([]domain.AppointmentDTO, error) {
	if _, err := authorize(ctx, domain.EntityAppointments, domain.ActionRead); err != nil {
		return nil, err
	}
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filters.Status)
	}

	appts, err := s.appointmentRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	dtos := make([]domain.AppointmentDTO, len(appts))
	for i := range appts {
		dtos[i] = mapper.ToAppointmentDTO(&appts[i])
	}
	return dtos, nil
}

// apply copies the form fields shared by create and update onto appt.
// The client must be visible to the caller. The assignee defaults to the
// current one, or the caller for new appointments, and must be a manager or
// employee. Callers limited to their own appointments cannot pick anyone else.
func (s *AppointmentService) apply(ctx context.Context, userCtx *auth.UserContext, appt *domain.Appointment, clientID uuid.UUID, userID *uuid.UUID, date, clock string) error {
	parsedDate, err := mapper.ParseDate(date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	parsedTime, err := mapper.ParseOptionalTime(clock)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return lookupError("client", err)
	}

	assignee := userCtx.UserID
	if appt.UserID != nil {
		assignee = *appt.UserID
	}
	if userID != nil {
		assignee = *userID
	}

	unchanged := appt.UserID != nil && *appt.UserID == assignee
	switch {
	case unchanged:
	case assignee == userCtx.UserID:
		if !userCtx.Role.IsAssignable() {
			return ErrInvalidAssignee
		}
		appt.User = nil
	default:
		if userCtx.Capability(domain.EntityAppointments).Read != domain.ScopeAll {
			return fmt.Errorf("%w: appointments can only be assigned to yourself", ErrPermissionDenied)
		}
		user, err := resolveAssignee(ctx, s.userRepo, &assignee)
		if err != nil {
			return err
		}
		appt.User = user
	}

	appt.ClientID = client.ID
	appt.Client = client
	appt.UserID = &assignee
	appt.Date = parsedDate
	appt.Time = parsedTime
	return nil
}
