package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:      "test-secret-that-is-long-enough-123",
		Issuer:         "careadmin-test",
		AccessTokenTTL: 15,
	}
}

func testUser(role domain.Role) *domain.User {
	u := &domain.User{
		OrgID:    uuid.New(),
		Email:    "nurse@example.com",
		FullName: "Ayşe Yılmaz",
		Role:     role,
	}
	u.ID = uuid.New()
	return u
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())
	user := testUser(domain.RoleManager)

	token, err := tm.Issue(user)
	require.NoError(t, err)

	userCtx, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.OrgID, userCtx.OrgID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.FullName, userCtx.FullName)
	assert.Equal(t, domain.RoleManager, userCtx.Role)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := auth.NewTokenManager(testAuthConfig()).Issue(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	other := testAuthConfig()
	other.JWTSecret = "a-completely-different-secret-value"
	_, err = auth.NewTokenManager(other).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	cfg := testAuthConfig()
	claims := auth.Claims{
		OrgID: uuid.NewString(),
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = auth.NewTokenManager(cfg).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	cfg := testAuthConfig()
	claims := auth.Claims{
		OrgID: uuid.NewString(),
		Role:  "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)

	_, err = auth.NewTokenManager(cfg).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, auth.CheckPassword(hash, "correct horse"))
	assert.False(t, auth.CheckPassword(hash, "wrong horse"))
}

func TestNewRefreshToken(t *testing.T) {
	raw, hash, err := auth.NewRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, raw)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, auth.HashRefreshToken(raw))

	raw2, _, err := auth.NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestFromContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	u := &auth.UserContext{UserID: uuid.New(), Role: domain.RoleEmployee}
	got, ok := auth.FromContext(auth.WithUserContext(context.Background(), u))
	assert.True(t, ok)
	assert.Equal(t, u, got)
}

func newMiddleware() (*auth.Middleware, *auth.TokenManager) {
	tm := auth.NewTokenManager(testAuthConfig())
	return auth.NewMiddleware(tm, zap.NewNop()), tm
}

func TestMiddleware_Authenticate(t *testing.T) {
	mw, tm := newMiddleware()
	user := testUser(domain.RoleEmployee)
	token, err := tm.Issue(user)
	require.NoError(t, err)

	var captured *auth.UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid bearer", header: "Bearer " + token, status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, user.ID, captured.UserID)
			} else {
				assert.Nil(t, captured)
			}
		})
	}
}

func TestMiddleware_RequireCapability(t *testing.T) {
	mw, _ := newMiddleware()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		role   domain.Role
		entity domain.Entity
		action domain.Action
		status int
	}{
		{name: "admin deletes users", role: domain.RoleAdmin, entity: domain.EntityUsers, action: domain.ActionDelete, status: http.StatusNoContent},
		{name: "manager cannot delete users", role: domain.RoleManager, entity: domain.EntityUsers, action: domain.ActionDelete, status: http.StatusForbidden},
		{name: "employee cannot read users", role: domain.RoleEmployee, entity: domain.EntityUsers, action: domain.ActionRead, status: http.StatusForbidden},
		{name: "employee creates leave", role: domain.RoleEmployee, entity: domain.EntityHRLeaves, action: domain.ActionCreate, status: http.StatusNoContent},
		{name: "employee cannot approve leave", role: domain.RoleEmployee, entity: domain.EntityHRLeaves, action: domain.ActionApprove, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := mw.RequireCapability(tt.entity, tt.action)(ok)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: uuid.New(), Role: tt.role}))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMiddleware_RequireCapability_NoContext(t *testing.T) {
	mw, _ := newMiddleware()
	handler := mw.RequireCapability(domain.EntityClients, domain.ActionRead)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
