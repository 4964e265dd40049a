package repository

import (
	"context"
	"strings"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID loads a user without any caller scope. Used by session handling.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetScoped loads a user the caller is allowed to read
func (r *UserRepository) GetScoped(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := r.db.WithContext(ctx).Where("users.id = ?", id)
	query = ApplyScope(ctx, query, domain.EntityUsers)
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateReleasingClients saves user and clears every client assignment that
// points at them in one transaction. It returns how many clients were released.
func (r *UserRepository) UpdateReleasingClients(ctx context.Context, user *domain.User) (int64, error) {
	var released int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		result := tx.Model(&domain.Client{}).
			Where("assigned_to_user_id = ?", user.ID).
			Update("assigned_to_user_id", nil)
		if result.Error != nil {
			return result.Error
		}
		released = result.RowsAffected
		return nil
	})
	return released, err
}

// Delete removes the user together with every refresh token issued to them
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.RefreshToken{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List returns the users visible to the caller, newest first
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	query := r.db.WithContext(ctx).Model(&domain.User{})
	query = ApplyScope(ctx, query, domain.EntityUsers)
	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

// ListAssignable returns the managers and employees that clients and appointments can be assigned to
func (r *UserRepository) ListAssignable(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("role IN ?", []domain.Role{domain.RoleManager, domain.RoleEmployee}).
		Order("full_name ASC").
		Find(&users).Error
	return users, err
}

// Count returns the total number of users, ignoring caller scope
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error
	return count, err
}
