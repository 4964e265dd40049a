package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClientService struct {
	clientRepo      *repository.ClientRepository
	userRepo        *repository.UserRepository
	documentRepo    *repository.DocumentRepository
	appointmentRepo *repository.AppointmentRepository
	activity        *ActivityService
	logger          *zap.Logger
}

func NewClientService(
	clientRepo *repository.ClientRepository,
	userRepo *repository.UserRepository,
	documentRepo *repository.DocumentRepository,
	appointmentRepo *repository.AppointmentRepository,
	activity *ActivityService,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:      clientRepo,
		userRepo:        userRepo,
		documentRepo:    documentRepo,
		appointmentRepo: appointmentRepo,
		activity:        activity,
		logger:          logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityClients, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	startDate, err := mapper.ParseOptionalDate(req.ServiceStartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	assignedTo := req.AssignedToUserID
	if userCtx.Capability(domain.EntityClients).Read != domain.ScopeAll {
		// the new client must stay visible to its creator
		if assignedTo != nil && *assignedTo != userCtx.UserID {
			return nil, fmt.Errorf("%w: clients you add are assigned to you", ErrPermissionDenied)
		}
		self := userCtx.UserID
		assignedTo = &self
	}
	assignee, err := resolveAssignee(ctx, s.userRepo, assignedTo)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.ClientStatusActive
	}

	client := &domain.Client{
		OrgID:            userCtx.OrgID,
		Name:             strings.TrimSpace(req.Name),
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		Status:           status,
		ServiceStartDate: startDate,
		AssignedToUserID: assignedTo,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	client.AssignedTo = assignee

	s.activity.Record(ctx, domain.ActionClientCreated, client.ID, fmt.Sprintf("Client '%s' was created", client.Name), nil)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	if _, err := authorize(ctx, domain.EntityClients, domain.ActionRead); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("client", err)
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// Update overwrites the client's editable fields (last write wins).
// Employees cannot change who a client is assigned to.
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityClients, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("client", err)
	}

	startDate, err := mapper.ParseOptionalDate(req.ServiceStartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if userCtx.Capability(domain.EntityClients).Read == domain.ScopeAll {
		assignee, err := resolveAssignee(ctx, s.userRepo, req.AssignedToUserID)
		if err != nil {
			return nil, err
		}
		client.AssignedToUserID = req.AssignedToUserID
		client.AssignedTo = assignee
	}

	client.Name = strings.TrimSpace(req.Name)
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	client.Status = req.Status
	client.ServiceStartDate = startDate

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.activity.Record(ctx, domain.ActionClientUpdated, client.ID, fmt.Sprintf("Client '%s' was updated", client.Name), nil)

	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authorize(ctx, domain.EntityClients, domain.ActionDelete); err != nil {
		return err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return lookupError("client", err)
	}
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	s.activity.Record(ctx, domain.ActionClientDeleted, id, fmt.Sprintf("Client '%s' was deleted", client.Name), nil)
	return nil
}

func (s *ClientService) List(ctx context.Context, filters domain.ClientFilters, sort repository.SortConfig) ([]domain.ClientDTO, error) {
	if _, err := authorize(ctx, domain.EntityClients, domain.ActionRead); err != nil {
		return nil, err
	}
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filters.Status)
	}

	clients, err := s.clientRepo.List(ctx, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = mapper.ToClientDTO(&clients[i])
	}
	return dtos, nil
}

// Profile returns the client with the documents and appointments the caller
// may also see.
func (s *ClientService) Profile(ctx context.Context, id uuid.UUID) (*domain.ClientProfileDTO, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.List(ctx, domain.DocumentFilters{ClientID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list client documents: %w", err)
	}
	appts, err := s.appointmentRepo.List(ctx, domain.AppointmentFilters{ClientID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list client appointments: %w", err)
	}

	profile := &domain.ClientProfileDTO{
		Client:       *client,
		Documents:    make([]domain.DocumentDTO, len(docs)),
		Appointments: make([]domain.AppointmentDTO, len(appts)),
	}
	for i := range docs {
		profile.Documents[i] = mapper.ToDocumentDTO(&docs[i])
	}
	for i := range appts {
		profile.Appointments[i] = mapper.ToAppointmentDTO(&appts[i])
	}
	return profile, nil
}

// resolveAssignee loads the user a client or appointment is being assigned
// to and checks their role. A nil id means unassigned.
func resolveAssignee(ctx context.Context, userRepo *repository.UserRepository, id *uuid.UUID) (*domain.User, error) {
	if id == nil {
		return nil, nil
	}
	user, err := userRepo.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssignee
		}
		return nil, fmt.Errorf("failed to load assignee: %w", err)
	}
	if !user.Role.IsAssignable() {
		return nil, ErrInvalidAssignee
	}
	return user, nil
}
