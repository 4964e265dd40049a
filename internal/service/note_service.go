package service

import (
	"context"
	"fmt"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NoteService struct {
	noteRepo   *repository.NoteRepository
	clientRepo *repository.ClientRepository
	activity   *ActivityService
	logger     *zap.Logger
}

func NewNoteService(noteRepo *repository.NoteRepository, clientRepo *repository.ClientRepository, activity *ActivityService, logger *zap.Logger) *NoteService {
	return &NoteService{
		noteRepo:   noteRepo,
		clientRepo: clientRepo,
		activity:   activity,
		logger:     logger,
	}
}

func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.NoteDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityNotes, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, lookupError("client", err)
	}

	note := &domain.Note{
		ClientID: client.ID,
		Client:   client,
		UserID:   userCtx.UserID,
		Content:  req.Content,
		Tags:     domain.TagList(req.Tags),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.activity.Record(ctx, domain.ActionNoteCreated, note.ID, fmt.Sprintf("Note added to client '%s'", client.Name), nil)

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

func (s *NoteService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateNoteRequest) (*domain.NoteDTO, error) {
	if _, err := authorize(ctx, domain.EntityNotes, domain.ActionUpdate); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("note", err)
	}

	note.Content = req.Content
	note.Tags = domain.TagList(req.Tags)
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.activity.Record(ctx, domain.ActionNoteUpdated, note.ID, "Note was updated", nil)

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

func (s *NoteService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authorize(ctx, domain.EntityNotes, domain.ActionDelete); err != nil {
		return err
	}

	if _, err := s.noteRepo.GetByID(ctx, id); err != nil {
		return lookupError("note", err)
	}
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.activity.Record(ctx, domain.ActionNoteDeleted, id, "Note was deleted", nil)
	return nil
}

func (s *NoteService) List(ctx context.Context, filters domain.NoteFilters) ([]domain.NoteDTO, error) {
	if _, err := authorize(ctx, domain.EntityNotes, domain.ActionRead); err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	dtos := make([]domain.NoteDTO, len(notes))
	for i := range notes {
		dtos[i] = mapper.ToNoteDTO(&notes[i])
	}
	return dtos, nil
}
