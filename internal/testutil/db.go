// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with every model migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.AllModels()...))
	return db
}

// CreateTestUser inserts a user with the given role and a throwaway password hash
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.Role) *domain.User {
	t.Helper()
	n := seq.Add(1)
	user := &domain.User{
		OrgID:        uuid.New(),
		Email:        fmt.Sprintf("user%d@example.com", n),
		FullName:     fmt.Sprintf("Test User %d", n),
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestClient inserts a client, optionally assigned
func CreateTestClient(t *testing.T, db *gorm.DB, name string, assignee *domain.User) *domain.Client {
	t.Helper()
	client := &domain.Client{
		OrgID:  uuid.New(),
		Name:   name,
		Status: domain.ClientStatusActive,
	}
	if assignee != nil {
		client.AssignedToUserID = &assignee.ID
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestAppointment inserts a scheduled appointment for client, optionally assigned
func CreateTestAppointment(t *testing.T, db *gorm.DB, client *domain.Client, user *domain.User, date time.Time) *domain.Appointment {
	t.Helper()
	appt := &domain.Appointment{
		ClientID: client.ID,
		Date:     datatypes.Date(date),
		Status:   domain.AppointmentStatusScheduled,
	}
	if user != nil {
		appt.UserID = &user.ID
	}
	require.NoError(t, db.Create(appt).Error)
	return appt
}

// CreateTestLeave inserts a pending annual leave for user
func CreateTestLeave(t *testing.T, db *gorm.DB, user *domain.User) *domain.HRLeave {
	t.Helper()
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	leave := &domain.HRLeave{
		UserID:   user.ID,
		Type:     domain.LeaveTypeAnnual,
		DateFrom: datatypes.Date(from),
		DateTo:   datatypes.Date(from.AddDate(0, 0, 4)),
		Status:   domain.LeaveStatusPending,
	}
	require.NoError(t, db.Create(leave).Error)
	return leave
}

// CreateTestDocument inserts document metadata for client
func CreateTestDocument(t *testing.T, db *gorm.DB, client *domain.Client, filename string) *domain.Document {
	t.Helper()
	doc := &domain.Document{
		ClientID:    client.ID,
		Filename:    filename,
		FileURL:     "/files/" + filename,
		StorageKey:  filename,
		ContentType: "application/pdf",
		Size:        128,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

// CreateTestNote inserts a note on client written by author
func CreateTestNote(t *testing.T, db *gorm.DB, client *domain.Client, author *domain.User, content string) *domain.Note {
	t.Helper()
	note := &domain.Note{
		ClientID: client.ID,
		UserID:   author.ID,
		Content:  content,
		Tags:     domain.TagList{},
	}
	require.NoError(t, db.Create(note).Error)
	return note
}

// ContextFor returns a context carrying user as the authenticated caller
func ContextFor(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), UserContextFor(user))
}

// UserContextFor builds the session context for user
func UserContextFor(user *domain.User) *auth.UserContext {
	return &auth.UserContext{
		UserID:   user.ID,
		OrgID:    user.OrgID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}
