package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSecrets map[string]string

func (m mapSecrets) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	if v, ok := m[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, "tr", cfg.I18n.DefaultLanguage)
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.App.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Mode: "local"}}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "short"
	assert.NoError(t, cfg.Validate())

	cfg.App.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg.App.Environment = "development"
	cfg.Storage.Mode = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "keep-me"

	applySecrets(context.Background(), cfg, mapSecrets{
		"POSTGRES-MAIN-HOST": "pg.example",
		"jwt-signing-secret": "vault-secret",
		"sentry-dsn":         "https://sentry.example/1",
	})

	assert.Equal(t, "pg.example", cfg.Database.Host)
	assert.Equal(t, "keep-me", cfg.Database.Password)
	assert.Equal(t, "vault-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "https://sentry.example/1", cfg.Sentry.DSN)
}
