package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/i18n"
	"github.com/carebase/admin-api/internal/mapper"
	"github.com/carebase/admin-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenTypeBearer = "Bearer"

// SessionService signs users up and in, rotates refresh tokens and serves
// the caller's own profile.
type SessionService struct {
	userRepo  *repository.UserRepository
	orgRepo   *repository.OrganizationRepository
	tokenRepo *repository.RefreshTokenRepository
	tokens    *auth.TokenManager
	catalog   *i18n.Catalog
	activity  *ActivityService
	cfg       *config.AuthConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewSessionService(
	userRepo *repository.UserRepository,
	orgRepo *repository.OrganizationRepository,
	tokenRepo *repository.RefreshTokenRepository,
	tokens *auth.TokenManager,
	catalog *i18n.Catalog,
	activity *ActivityService,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		userRepo:  userRepo,
		orgRepo:   orgRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		catalog:   catalog,
		activity:  activity,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// SignUp creates an account and starts a session. The very first account
// becomes the admin of the default organization; everyone after joins it
// as an employee. A role in the request is never honoured.
func (s *SessionService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SessionDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, s.cfg.MinPasswordLength)
	}

	email := normalizeEmail(req.Email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	role := domain.RoleEmployee
	if total == 0 {
		role = domain.RoleAdmin
	}

	org, err := s.orgRepo.FirstOrCreate(ctx, s.cfg.DefaultOrganization)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		OrgID:        org.ID,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	actorCtx := auth.WithUserContext(ctx, userContextFor(user))
	s.activity.Record(actorCtx, domain.ActionUserSignedUp, user.ID, fmt.Sprintf("%s signed up", user.Email), nil)

	return session, nil
}

// SignIn checks credentials and starts a session
func (s *SessionService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SessionDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, user)
}

// Refresh exchanges a live refresh token for a new session. The presented
// token is revoked, so each refresh token works exactly once.
func (s *SessionService) Refresh(ctx context.Context, rawToken string) (*domain.SessionDTO, error) {
	if rawToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	token, err := s.tokenRepo.GetActive(ctx, auth.HashRefreshToken(rawToken), s.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if err := s.tokenRepo.Revoke(ctx, token.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueSession(ctx, user)
}

// SignOut revokes the refresh token. Unknown tokens are ignored.
func (s *SessionService) SignOut(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	if err := s.tokenRepo.RevokeByHash(ctx, auth.HashRefreshToken(rawToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Profile returns the caller's profile row
func (s *SessionService) Profile(ctx context.Context) (*domain.UserDTO, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdateOwnProfile lets the caller change their display name. Role and email
// are not editable here.
func (s *SessionService) UpdateOwnProfile(ctx context.Context, req *domain.UpdateProfileRequest) (*domain.UserDTO, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	user.FullName = strings.TrimSpace(req.FullName)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.activity.Record(ctx, domain.ActionProfileUpdated, user.ID, "Profile updated", nil)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Me returns the caller's profile, capability matrix and translated menu
func (s *SessionService) Me(ctx context.Context) (*domain.MeDTO, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	lang := i18n.LanguageFromContext(ctx)
	if !s.catalog.Supports(lang) {
		lang = s.catalog.Default()
	}

	menu := domain.MenuFor(user.Role)
	for i := range menu {
		menu[i].Title = s.catalog.Translate(lang, menu[i].Key)
	}

	return &domain.MeDTO{
		User:         mapper.ToUserDTO(user),
		Language:     lang,
		Capabilities: domain.CapabilityMatrix(user.Role),
		Menu:         menu,
	}, nil
}

func (s *SessionService) currentUser(ctx context.Context) (*domain.User, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, lookupError("user", err)
	}
	return user, nil
}

func (s *SessionService) issueSession(ctx context.Context, user *domain.User) (*domain.SessionDTO, error) {
	access, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	raw, hash, err := auth.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	token := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: s.now().UTC().Add(s.cfg.RefreshTokenDuration()),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &domain.SessionDTO{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int(s.tokens.TTL().Seconds()),
		User:         mapper.ToUserDTO(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userContextFor(user *domain.User) *auth.UserContext {
	return &auth.UserContext{
		UserID:   user.ID,
		OrgID:    user.OrgID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}
