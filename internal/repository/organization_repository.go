package repository

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FirstOrCreate returns the organization called name, creating it if missing
func (r *OrganizationRepository) FirstOrCreate(ctx context.Context, name string) (*domain.Organization, error) {
	org := domain.Organization{Name: name}
	err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}
