package repository

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Omit("Client").Create(note).Error
}

func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	var note domain.Note
	query := r.db.WithContext(ctx).Preload("Client").Where("notes.id = ?", id)
	query = ApplyScope(ctx, query, domain.EntityNotes)
	if err := query.First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Omit("Client").Save(note).Error
}

func (r *NoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Note{}, "id = ?", id).Error
}

func (r *NoteRepository) List(ctx context.Context, filters domain.NoteFilters) ([]domain.Note, error) {
	var notes []domain.Note

	query := r.db.WithContext(ctx).Model(&domain.Note{}).Preload("Client")
	query = ApplyScope(ctx, query, domain.EntityNotes)

	if filters.ClientID != nil {
		query = query.Where("notes.client_id = ?", *filters.ClientID)
	}

	err := query.Order("notes.created_at DESC").Find(&notes).Error
	return notes, err
}
