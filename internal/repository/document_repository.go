package repository

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Omit("Client").Create(doc).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	query := r.db.WithContext(ctx).Preload("Client").Where("documents.id = ?", id)
	query = ApplyScope(ctx, query, domain.EntityDocuments)
	if err := query.First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id).Error
}

// List returns documents on clients the caller may see, newest first
func (r *DocumentRepository) List(ctx context.Context, filters domain.DocumentFilters) ([]domain.Document, error) {
	var docs []domain.Document

	query := r.db.WithContext(ctx).Model(&domain.Document{}).Preload("Client")
	query = ApplyScope(ctx, query, domain.EntityDocuments)

	if filters.ClientID != nil {
		query = query.Where("documents.client_id = ?", *filters.ClientID)
	}

	err := query.Order("documents.created_at DESC").Find(&docs).Error
	return docs, err
}
