package service_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var objectKey = regexp.MustCompile(`^[0-9]{13}_report\.pdf$`)

func TestDocumentService_UploadAndDelete(t *testing.T) {
	h := newHarness(t)
	_, ctx := h.user(t, domain.RoleManager)
	client := testutil.CreateTestClient(t, h.db, "client", nil)

	doc, err := h.documents.Upload(ctx, service.UploadInput{
		ClientID:    client.ID,
		Filename:    `C:\Users\me\report.pdf`,
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", doc.Filename)
	assert.Equal(t, int64(8), doc.Size)
	assert.Equal(t, "client", doc.ClientName)

	var row domain.Document
	require.NoError(t, h.db.First(&row, "id = ?", doc.ID).Error)
	assert.Regexp(t, objectKey, row.StorageKey)
	assert.Equal(t, "http://localhost:8080/files/"+row.StorageKey, doc.FileURL)

	_, err = os.Stat(filepath.Join(h.storageDir, row.StorageKey))
	require.NoError(t, err)

	require.NoError(t, h.documents.Delete(ctx, doc.ID))
	_, err = os.Stat(filepath.Join(h.storageDir, row.StorageKey))
	assert.True(t, os.IsNotExist(err))
	assert.Zero(t, h.count(t, &domain.Document{}))
}

func TestDocumentService_EmployeeScope(t *testing.T) {
	h := newHarness(t)
	employee, ctx := h.user(t, domain.RoleEmployee)
	mine := testutil.CreateTestClient(t, h.db, "mine", employee)
	other := testutil.CreateTestClient(t, h.db, "other", nil)
	testutil.CreateTestDocument(t, h.db, mine, "a.pdf")
	hidden := testutil.CreateTestDocument(t, h.db, other, "b.pdf")

	list, err := h.documents.List(ctx, domain.DocumentFilters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a.pdf", list[0].Filename)

	_, err = h.documents.GetByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = h.documents.Upload(ctx, service.UploadInput{ClientID: other.ID, Filename: "x.pdf", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = h.documents.Upload(ctx, service.UploadInput{ClientID: mine.ID, Filename: "", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	assert.ErrorIs(t, h.documents.Delete(ctx, list[0].ID), service.ErrPermissionDenied)
}
