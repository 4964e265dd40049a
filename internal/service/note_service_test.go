package service_test

import (
	"testing"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CreateUpdateList(t *testing.T) {
	h := newHarness(t)
	manager, ctx := h.user(t, domain.RoleManager)
	client := testutil.CreateTestClient(t, h.db, "client", nil)

	note, err := h.notes.Create(ctx, &domain.CreateNoteRequest{ClientID: client.ID, Content: "first visit", Tags: []string{"intake"}})
	require.NoError(t, err)
	assert.Equal(t, manager.ID, note.UserID)
	assert.Equal(t, []string{"intake"}, note.Tags)

	updated, err := h.notes.Update(ctx, note.ID, &domain.UpdateNoteRequest{Content: "first visit, follow up"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, updated.Tags)

	list, err := h.notes.List(ctx, domain.NoteFilters{ClientID: &client.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first visit, follow up", list[0].Content)

	_, err = h.notes.Create(ctx, &domain.CreateNoteRequest{ClientID: client.ID})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestNoteService_EmployeeFollowsClientAssignment(t *testing.T) {
	h := newHarness(t)
	employee, ctx := h.user(t, domain.RoleEmployee)
	manager, _ := h.user(t, domain.RoleManager)
	mine := testutil.CreateTestClient(t, h.db, "mine", employee)
	other := testutil.CreateTestClient(t, h.db, "other", nil)
	testutil.CreateTestNote(t, h.db, mine, manager, "visible")
	hidden := testutil.CreateTestNote(t, h.db, other, employee, "hidden even though I wrote it")

	list, err := h.notes.List(ctx, domain.NoteFilters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "visible", list[0].Content)

	_, err = h.notes.Update(ctx, hidden.ID, &domain.UpdateNoteRequest{Content: "x"})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = h.notes.Create(ctx, &domain.CreateNoteRequest{ClientID: other.ID, Content: "x"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
