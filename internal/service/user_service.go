package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService manages accounts on behalf of admins. Account and profile live
// in one row, so delete removes both along with any refresh tokens.
type UserService struct {
	userRepo *repository.UserRepository
	activity *ActivityService
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, activity *ActivityService, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		activity: activity,
		logger:   logger,
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	if _, err := authorize(ctx, domain.EntityUsers, domain.ActionRead); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return toUserDTOs(users), nil
}

// ListAssignable returns the users clients and appointments can be assigned to.
// Any signed-in caller may list them, since the client and appointment forms need them.
func (s *UserService) ListAssignable(ctx context.Context) ([]domain.UserDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	users, err := s.userRepo.ListAssignable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignable users: %w", err)
	}
	return toUserDTOs(users), nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserDTO, error) {
	if _, err := authorize(ctx, domain.EntityUsers, domain.ActionRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetScoped(ctx, id)
	if err != nil {
		return nil, lookupError("user", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Create adds an account in the admin's organization
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.UserDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityUsers, domain.ActionCreate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		OrgID:        userCtx.OrgID,
		Email:        normalizeEmail(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := s.ensureEmailFree(ctx, user.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.activity.Record(ctx, domain.ActionUserCreated, user.ID,
		fmt.Sprintf("User '%s' was created with role %s", user.Email, user.Role), nil)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Update changes profile fields and, being admin-only, the role. Admins
// cannot change their own role. A user leaving the manager and employee
// roles loses their client assignments.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	userCtx, err := authorize(ctx, domain.EntityUsers, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetScoped(ctx, id)
	if err != nil {
		return nil, lookupError("user", err)
	}
	if user.ID == userCtx.UserID && req.Role != user.Role {
		return nil, fmt.Errorf("%w: cannot change your own role", ErrConflict)
	}

	email := normalizeEmail(req.Email)
	if email != user.Email {
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
	}

	previousRole := user.Role
	user.Email = email
	user.FullName = strings.TrimSpace(req.FullName)
	user.Role = req.Role

	var released int64
	if previousRole.IsAssignable() && !user.Role.IsAssignable() {
		released, err = s.userRepo.UpdateReleasingClients(ctx, user)
	} else {
		err = s.userRepo.Update(ctx, user)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var metadata map[string]interface{}
	if previousRole != user.Role {
		metadata = map[string]interface{}{"previousRole": previousRole, "role": user.Role}
		if released > 0 {
			metadata["releasedClients"] = released
			s.logger.Info("client assignments released",
				zap.String("user_id", user.ID.String()),
				zap.Int64("clients", released))
		}
	}
	s.activity.Record(ctx, domain.ActionUserUpdated, user.ID, fmt.Sprintf("User '%s' was updated", user.Email), metadata)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Delete removes the account, its profile and its refresh tokens together.
// Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	userCtx, err := authorize(ctx, domain.EntityUsers, domain.ActionDelete)
	if err != nil {
		return err
	}
	if userCtx.UserID == id {
		return fmt.Errorf("%w: cannot delete your own account", ErrConflict)
	}

	user, err := s.userRepo.GetScoped(ctx, id)
	if err != nil {
		return lookupError("user", err)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", userCtx.UserID.String()))
	s.activity.Record(ctx, domain.ActionUserDeleted, id, fmt.Sprintf("User '%s' was deleted", user.Email), nil)
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing.ID != self {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	return nil
}

func toUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos
}
