package repository

import (
	"context"
	"strings"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository handles database operations for clients.
//
// Index recommendations:
// - CREATE INDEX idx_clients_assigned_to_user_id ON clients(assigned_to_user_id);
// - CREATE INDEX idx_clients_status ON clients(status);
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

var clientSortFields = map[string]string{
	"name":             "clients.name",
	"status":           "clients.status",
	"createdAt":        "clients.created_at",
	"serviceStartDate": "clients.service_start_date",
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID loads a client the caller may read, with its assignee
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	query := r.db.WithContext(ctx).Preload("AssignedTo").Where("clients.id = ?", id)
	query = ApplyScope(ctx, query, domain.EntityClients)
	if err := query.First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Omit("AssignedTo").Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}

// List returns the clients visible to the caller
func (r *ClientRepository) List(ctx context.Context, filters domain.ClientFilters, sort SortConfig) ([]domain.Client, error) {
	var clients []domain.Client

	query := r.db.WithContext(ctx).Model(&domain.Client{}).Preload("AssignedTo")
	query = ApplyScope(ctx, query, domain.EntityClients)

	if filters.Status != "" {
		query = query.Where("clients.status = ?", filters.Status)
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(clients.name) LIKE ? OR LOWER(clients.email) LIKE ?", pattern, pattern)
	}

	err := query.Order(BuildOrderClause(sort, clientSortFields, "clients.created_at")).Find(&clients).Error
	return clients, err
}

// Count returns the total number of clients, ignoring caller scope
func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Client{}).Count(&count).Error
	return count, err
}
