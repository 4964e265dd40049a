package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/http/handler"
	"github.com/carebase/admin-api/internal/i18n"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/storage"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testMaxUploadMB int64 = 1

type handlers struct {
	db          *gorm.DB
	store       storage.Storage
	auth        *handler.AuthHandler
	users       *handler.UserHandler
	clients     *handler.ClientHandler
	appts       *handler.AppointmentHandler
	leaves      *handler.HRLeaveHandler
	documents   *handler.DocumentHandler
	files       *handler.FileHandler
	notes       *handler.NoteHandler
	chat        *handler.ChatHandler
	dashboard   *handler.DashboardHandler
	activity    *handler.ActivityHandler
	i18n        *handler.I18nHandler
	catalog     *i18n.Catalog
	tokenIssuer *auth.TokenManager
}

func newHandlers(t *testing.T) *handlers {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	catalog, err := i18n.Load(i18n.Turkish)
	require.NoError(t, err)

	authCfg := &config.AuthConfig{
		JWTSecret:           "handler-test-secret-of-sufficient-length",
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

	return &handlers{
		db:          db,
		store:       store,
		auth:        handler.NewAuthHandler(sessions, logger),
		users:       handler.NewUserHandler(service.NewUserService(userRepo, activity, logger), logger),
		clients:     handler.NewClientHandler(service.NewClientService(clientRepo, userRepo, docRepo, apptRepo, activity, logger), logger),
		appts:       handler.NewAppointmentHandler(service.NewAppointmentService(apptRepo, clientRepo, userRepo, activity, logger), logger),
		leaves:      handler.NewHRLeaveHandler(service.NewHRLeaveService(repository.NewHRLeaveRepository(db), activity, logger), logger),
		documents:   handler.NewDocumentHandler(service.NewDocumentService(docRepo, clientRepo, store, activity, logger), testMaxUploadMB, logger),
		files:       handler.NewFileHandler(store, logger),
		notes:       handler.NewNoteHandler(service.NewNoteService(repository.NewNoteRepository(db), clientRepo, activity, logger), logger),
		chat:        handler.NewChatHandler(service.NewChatService(repository.NewChatRepository(db), logger), logger),
		dashboard:   handler.NewDashboardHandler(service.NewDashboardService(userRepo, clientRepo, apptRepo, activityRepo, logger), logger),
		activity:    handler.NewActivityHandler(activity, logger),
		i18n:        handler.NewI18nHandler(catalog),
		catalog:     catalog,
		tokenIssuer: tokens,
	}
}

func (h *handlers) user(t *testing.T, role domain.Role) *domain.User {
	return testutil.CreateTestUser(t, h.db, role)
}

// request builds a request carrying the user context and chi URL params
func request(method, target string, body interface{}, user *domain.User, params map[string]string) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if user != nil {
		ctx = auth.WithUserContext(ctx, testutil.UserContextFor(user))
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func serve(fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out), w.Body.String())
	return out
}
