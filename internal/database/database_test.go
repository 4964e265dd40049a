package database_test

import (
	"testing"

	"github.com/carebase/admin-api/internal/database"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckWithStats(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, database.HealthCheck(db))

	stats, err := database.HealthCheckWithStats(db)
	require.NoError(t, err)
	assert.Equal(t, "healthy", stats.Status)
	assert.Equal(t, 1, stats.MaxOpen)
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	assert.NoError(t, database.AutoMigrate(db))
}
