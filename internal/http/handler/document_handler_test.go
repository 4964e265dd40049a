package handler_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadRequest builds a multipart upload; an empty clientID omits the field
func uploadRequest(t *testing.T, user *domain.User, clientID, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if clientID != "" {
		require.NoError(t, mw.WriteField("clientId", clientID))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := request(http.MethodPost, "/api/v1/documents", nil, user, nil)
	req.Body = io.NopCloser(&buf)
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentHandler_UploadServeDelete(t *testing.T) {
	h := newHandlers(t)
	manager := h.user(t, domain.RoleManager)
	client := testutil.CreateTestClient(t, h.db, "Client", nil)

	w := serve(h.documents.Upload, uploadRequest(t, manager, client.ID.String(), "assessment.txt", []byte("hello care")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode[domain.DocumentDTO](t, w)
	assert.Equal(t, "assessment.txt", doc.Filename)
	assert.Equal(t, int64(len("hello care")), doc.Size)
	assert.True(t, strings.HasPrefix(doc.FileURL, "http://localhost:8080/files/"))

	key := strings.TrimPrefix(doc.FileURL, "http://localhost:8080/files/")
	w = serve(h.files.Serve, request(http.MethodGet, "/files/"+key, nil, nil, map[string]string{"key": key}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello care", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	params := map[string]string{"id": doc.ID.String()}
	w = serve(h.documents.GetByID, request(http.MethodGet, "/", nil, manager, params))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(h.documents.Delete, request(http.MethodDelete, "/", nil, manager, params))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = serve(h.files.Serve, request(http.MethodGet, "/files/"+key, nil, nil, map[string]string{"key": key}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_UploadErrors(t *testing.T) {
	h := newHandlers(t)
	manager := h.user(t, domain.RoleManager)
	client := testutil.CreateTestClient(t, h.db, "Client", nil)
	big := bytes.Repeat([]byte("x"), int(testMaxUploadMB*1024*1024)+1)

	tests := []struct {
		name     string
		clientID string
		filename string
		content  []byte
		status   int
	}{
		{name: "missing client", filename: "a.txt", content: []byte("a"), status: http.StatusBadRequest},
		{name: "bad client id", clientID: "nope", filename: "a.txt", content: []byte("a"), status: http.StatusBadRequest},
		{name: "missing file", clientID: client.ID.String(), status: http.StatusBadRequest},
		{name: "unknown client", clientID: "7b0e4c1a-3d55-4a0f-9b9e-2f4f3c6a1d10", filename: "a.txt", content: []byte("a"), status: http.StatusNotFound},
		{name: "too large", clientID: client.ID.String(), filename: "big.bin", content: big, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h.documents.Upload, uploadRequest(t, manager, tt.clientID, tt.filename, tt.content))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	var n int64
	require.NoError(t, h.db.Model(&domain.Document{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDocumentHandler_EmployeeScope(t *testing.T) {
	h := newHandlers(t)
	me := h.user(t, domain.RoleEmployee)
	other := h.user(t, domain.RoleEmployee)
	mine := testutil.CreateTestClient(t, h.db, "Mine", me)
	theirs := testutil.CreateTestClient(t, h.db, "Theirs", other)
	myDoc := testutil.CreateTestDocument(t, h.db, mine, "mine.pdf")
	theirDoc := testutil.CreateTestDocument(t, h.db, theirs, "theirs.pdf")

	w := serve(h.documents.List, request(http.MethodGet, "/api/v1/documents", nil, me, nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]domain.DocumentDTO](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, myDoc.ID, list[0].ID)

	w = serve(h.documents.GetByID, request(http.MethodGet, "/", nil, me, map[string]string{"id": theirDoc.ID.String()}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h.documents.Upload, uploadRequest(t, me, theirs.ID.String(), "sneaky.txt", []byte("x")))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h.documents.Delete, request(http.MethodDelete, "/", nil, me, map[string]string{"id": myDoc.ID.String()}))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFileHandler_RejectsTraversal(t *testing.T) {
	h := newHandlers(t)

	for _, key := range []string{"../secret", "", "a/b"} {
		w := serve(h.files.Serve, request(http.MethodGet, "/files/x", nil, nil, map[string]string{"key": key}))
		assert.Equal(t, http.StatusNotFound, w.Code, key)
	}
}
