package service_test

import (
	"testing"
	"time"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateAndUpdateRole(t *testing.T) {
	h := newHarness(t)
	admin, ctx := h.user(t, domain.RoleAdmin)

	created, err := h.users.Create(ctx, &domain.CreateUserRequest{
		Email:    "New.Hire@Example.com",
		Password: "long-enough-password",
		FullName: " New Hire ",
		Role:     domain.RoleEmployee,
	})
	require.NoError(t, err)
	assert.Equal(t, "new.hire@example.com", created.Email)
	assert.Equal(t, "New Hire", created.FullName)
	assert.Equal(t, admin.OrgID, created.OrgID)

	_, err = h.users.Create(ctx, &domain.CreateUserRequest{
		Email:    "new.hire@example.com",
		Password: "long-enough-password",
		FullName: "Twin",
		Role:     domain.RoleEmployee,
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	updated, err := h.users.Update(ctx, created.ID, &domain.UpdateUserRequest{
		Email:    created.Email,
		FullName: created.FullName,
		Role:     domain.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	var entry domain.ActivityLog
	require.NoError(t, h.db.Where("action_type = ?", domain.ActionUserUpdated).First(&entry).Error)
	assert.Equal(t, "manager", entry.Metadata["role"])
	assert.Equal(t, "employee", entry.Metadata["previousRole"])

	_, err = h.users.Update(ctx, created.ID, &domain.UpdateUserRequest{Email: created.Email, FullName: "x", Role: "owner"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestUserService_DeleteRules(t *testing.T) {
	h := newHarness(t)
	admin, adminCtx := h.user(t, domain.RoleAdmin)
	_, managerCtx := h.user(t, domain.RoleManager)
	target, _ := h.user(t, domain.RoleEmployee)

	require.NoError(t, h.db.Create(&domain.RefreshToken{
		UserID:    target.ID,
		TokenHash: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	assert.ErrorIs(t, h.users.Delete(managerCtx, target.ID), service.ErrPermissionDenied)
	assert.ErrorIs(t, h.users.Delete(adminCtx, admin.ID), service.ErrConflict)

	require.NoError(t, h.users.Delete(adminCtx, target.ID))
	_, err := h.users.GetByID(adminCtx, target.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, h.count(t, &domain.RefreshToken{}))

	assert.ErrorIs(t, h.users.Delete(adminCtx, target.ID), service.ErrNotFound)
}

func TestUserService_PromotionReleasesClients(t *testing.T) {
	h := newHarness(t)
	_, adminCtx := h.user(t, domain.RoleAdmin)
	employee, _ := h.user(t, domain.RoleEmployee)
	manager, _ := h.user(t, domain.RoleManager)
	theirs := testutil.CreateTestClient(t, h.db, "Theirs", employee)
	kept := testutil.CreateTestClient(t, h.db, "Kept", manager)

	// employee to manager stays assignable
	_, err := h.users.Update(adminCtx, employee.ID, &domain.UpdateUserRequest{
		Email:    employee.Email,
		FullName: employee.FullName,
		Role:     domain.RoleManager,
	})
	require.NoError(t, err)
	var client domain.Client
	require.NoError(t, h.db.First(&client, "id = ?", theirs.ID).Error)
	require.NotNil(t, client.AssignedToUserID)
	assert.Equal(t, employee.ID, *client.AssignedToUserID)

	promoted, err := h.users.Update(adminCtx, employee.ID, &domain.UpdateUserRequest{
		Email:    employee.Email,
		FullName: employee.FullName,
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	client = domain.Client{}
	require.NoError(t, h.db.First(&client, "id = ?", theirs.ID).Error)
	assert.Nil(t, client.AssignedToUserID)

	client = domain.Client{}
	require.NoError(t, h.db.First(&client, "id = ?", kept.ID).Error)
	require.NotNil(t, client.AssignedToUserID)
	assert.Equal(t, manager.ID, *client.AssignedToUserID)

	var dangling int64
	require.NoError(t, h.db.Model(&domain.Client{}).
		Joins("JOIN users ON users.id = clients.assigned_to_user_id").
		Where("users.role = ?", domain.RoleAdmin).
		Count(&dangling).Error)
	assert.Zero(t, dangling)
}

func TestUserService_CannotChangeOwnRole(t *testing.T) {
	h := newHarness(t)
	admin, adminCtx := h.user(t, domain.RoleAdmin)

	_, err := h.users.Update(adminCtx, admin.ID, &domain.UpdateUserRequest{
		Email:    admin.Email,
		FullName: admin.FullName,
		Role:     domain.RoleEmployee,
	})
	assert.ErrorIs(t, err, service.ErrConflict)

	var stored domain.User
	require.NoError(t, h.db.First(&stored, "id = ?", admin.ID).Error)
	assert.Equal(t, domain.RoleAdmin, stored.Role)

	renamed, err := h.users.Update(adminCtx, admin.ID, &domain.UpdateUserRequest{
		Email:    admin.Email,
		FullName: "Renamed Admin",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Admin", renamed.FullName)
}

func TestUserService_ReadAccess(t *testing.T) {
	h := newHarness(t)
	h.user(t, domain.RoleAdmin)
	manager, managerCtx := h.user(t, domain.RoleManager)
	employee, employeeCtx := h.user(t, domain.RoleEmployee)

	users, err := h.users.List(managerCtx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = h.users.List(employeeCtx)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	assignable, err := h.users.ListAssignable(employeeCtx)
	require.NoError(t, err)
	ids := make([]string, 0, len(assignable))
	for _, u := range assignable {
		ids = append(ids, u.ID.String())
	}
	assert.ElementsMatch(t, []string{manager.ID.String(), employee.ID.String()}, ids)

	_, err = h.users.Create(managerCtx, &domain.CreateUserRequest{Email: "a@b.co", Password: "password123", FullName: "A", Role: domain.RoleEmployee})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
