package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/http/handler"
	"github.com/carebase/admin-api/internal/http/middleware"
	"github.com/carebase/admin-api/internal/http/router"
	"github.com/carebase/admin-api/internal/i18n"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/storage"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stack struct {
	handler http.Handler
	db      *gorm.DB
	tokens  *auth.TokenManager
}

func newStack(t *testing.T) *stack {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "careadmin", Environment: "development", Port: 8080},
		Auth: config.AuthConfig{
			JWTSecret:           "router-test-secret-of-sufficient-length",
			Issuer:              "careadmin-test",
			AccessTokenTTL:      15,
			RefreshTokenTTL:     60,
			DefaultOrganization: "Test Care",
			MinPasswordLength:   8,
		},
		Storage:   config.StorageConfig{Mode: "local", MaxUploadSizeMB: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Security:  config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
		RateLimit: config.RateLimitConfig{Enabled: false, RequestsPerMinute: 100, RequestsPerMinuteAuth: 100, SignInPerMinute: 10},
		Telemetry: config.TelemetryConfig{ServiceName: "careadmin-test"},
	}

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)
	catalog, err := i18n.Load(i18n.Turkish)
	require.NoError(t, err)

	tokens := auth.NewTokenManager(&cfg.Auth)
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	activity := service.NewActivityService(activityRepo, logger)
	sessions := service.NewSessionService(userRepo, repository.NewOrganizationRepository(db),
		repository.NewRefreshTokenRepository(db), tokens, catalog, activity, &cfg.Auth, logger)

	rt := router.NewRouter(cfg, logger, db, catalog, auth.NewMiddleware(tokens, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger), router.Handlers{
			Auth:        handler.NewAuthHandler(sessions, logger),
			User:        handler.NewUserHandler(service.NewUserService(userRepo, activity, logger), logger),
			Client:      handler.NewClientHandler(service.NewClientService(clientRepo, userRepo, docRepo, apptRepo, activity, logger), logger),
			Appointment: handler.NewAppointmentHandler(service.NewAppointmentService(apptRepo, clientRepo, userRepo, activity, logger), logger),
			HRLeave:     handler.NewHRLeaveHandler(service.NewHRLeaveService(repository.NewHRLeaveRepository(db), activity, logger), logger),
			Document:    handler.NewDocumentHandler(service.NewDocumentService(docRepo, clientRepo, store, activity, logger), cfg.Storage.MaxUploadSizeMB, logger),
			File:        handler.NewFileHandler(store, logger),
			Note:        handler.NewNoteHandler(service.NewNoteService(repository.NewNoteRepository(db), clientRepo, activity, logger), logger),
			Chat:        handler.NewChatHandler(service.NewChatService(repository.NewChatRepository(db), logger), logger),
			Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(userRepo, clientRepo, apptRepo, activityRepo, logger), logger),
			Activity:    handler.NewActivityHandler(activity, logger),
			I18n:        handler.NewI18nHandler(catalog),
		})

	return &stack{handler: rt.Setup(), db: db, tokens: tokens}
}

func (s *stack) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *stack) tokenFor(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := s.tokens.Issue(testutil.CreateTestUser(t, s.db, role))
	require.NoError(t, err)
	return token
}

func TestRouter_Health(t *testing.T) {
	s := newStack(t)

	w := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = s.do(t, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_SignUpThenMe(t *testing.T) {
	s := newStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", domain.SignUpRequest{
		Email:    "first@example.com",
		Password: "correct-horse",
		FullName: "First Admin",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session domain.SessionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotEmpty(t, session.AccessToken)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, session.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/users", nil, session.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Access(t *testing.T) {
	s := newStack(t)
	employee := s.tokenFor(t, domain.RoleEmployee)
	manager := s.tokenFor(t, domain.RoleManager)
	admin := s.tokenFor(t, domain.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"no token", http.MethodGet, "/api/v1/clients", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/clients", "not-a-jwt", http.StatusUnauthorized},
		{"employee clients", http.MethodGet, "/api/v1/clients", employee, http.StatusOK},
		{"employee users", http.MethodGet, "/api/v1/users", employee, http.StatusForbidden},
		{"employee assignable", http.MethodGet, "/api/v1/users/assignable", employee, http.StatusOK},
		{"employee approves leave", http.MethodPost, "/api/v1/hr/leaves/00000000-0000-0000-0000-000000000001/approve", employee, http.StatusForbidden},
		{"manager approves missing leave", http.MethodPost, "/api/v1/hr/leaves/00000000-0000-0000-0000-000000000001/approve", manager, http.StatusNotFound},
		{"manager activity", http.MethodGet, "/api/v1/activity", manager, http.StatusForbidden},
		{"admin activity", http.MethodGet, "/api/v1/activity", admin, http.StatusOK},
		{"employee dashboard", http.MethodGet, "/api/v1/dashboard", employee, http.StatusOK},
		{"public languages", http.MethodGet, "/api/v1/i18n", "", http.StatusOK},
		{"public table", http.MethodGet, "/api/v1/i18n/de", "", http.StatusOK},
		{"missing file", http.MethodGet, "/files/nothing.txt", "", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/v1/projects", admin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, nil, tt.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRouter_LanguageNegotiation(t *testing.T) {
	s := newStack(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/i18n", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	assert.Equal(t, i18n.German, w.Header().Get("Content-Language"))

	w = s.do(t, http.MethodGet, "/api/v1/i18n?lang=tr", nil, "")
	assert.Equal(t, i18n.Turkish, w.Header().Get("Content-Language"))
}
