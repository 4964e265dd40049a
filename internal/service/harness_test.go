package service_test

import (
	"context"
	"testing"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/i18n"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/storage"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db          *gorm.DB
	storageDir  string
	sessions    *service.SessionService
	users       *service.UserService
	clients     *service.ClientService
	appts       *service.AppointmentService
	leaves      *service.HRLeaveService
	documents   *service.DocumentService
	notes       *service.NoteService
	chat        *service.ChatService
	dashboard   *service.DashboardService
	activity    *service.ActivityService
	authConfig  *config.AuthConfig
	tokenIssuer *auth.TokenManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	dir := t.TempDir()

	store, err := storage.NewLocalStorage(dir, "http://localhost:8080/files")
	require.NoError(t, err)
	catalog, err := i18n.Load(i18n.Turkish)
	require.NoError(t, err)

	authCfg := &config.AuthConfig{
		JWTSecret:           "service-test-secret-of-sufficient-length",
		Issuer:              "careadmin-test",
		AccessTokenTTL:      15,
		RefreshTokenTTL:     60,
		DefaultOrganization: "Test Care",
		MinPasswordLength:   8,
	}
	tokens := auth.NewTokenManager(authCfg)

	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activity := service.NewActivityService(activityRepo, logger)

	sessions := service.NewSessionService(userRepo, repository.NewOrganizationRepository(db),
		repository.NewRefreshTokenRepository(db), tokens, catalog, activity, authCfg, logger)

	return &harness{
		db:          db,
		storageDir:  dir,
		sessions:    sessions,
		users:       service.NewUserService(userRepo, activity, logger),
		clients:     service.NewClientService(clientRepo, userRepo, docRepo, apptRepo, activity, logger),
		appts:       service.NewAppointmentService(apptRepo, clientRepo, userRepo, activity, logger),
		leaves:      service.NewHRLeaveService(repository.NewHRLeaveRepository(db), activity, logger),
		documents:   service.NewDocumentService(docRepo, clientRepo, store, activity, logger),
		notes:       service.NewNoteService(repository.NewNoteRepository(db), clientRepo, activity, logger),
		chat:        service.NewChatService(repository.NewChatRepository(db), logger),
		dashboard:   service.NewDashboardService(userRepo, clientRepo, apptRepo, activityRepo, logger),
		activity:    activity,
		authConfig:  authCfg,
		tokenIssuer: tokens,
	}
}

func (h *harness) user(t *testing.T, role domain.Role) (*domain.User, context.Context) {
	u := testutil.CreateTestUser(t, h.db, role)
	return u, testutil.ContextFor(u)
}

func (h *harness) count(t *testing.T, model interface{}) int64 {
	var n int64
	require.NoError(t, h.db.Model(model).Count(&n).Error)
	return n
}
