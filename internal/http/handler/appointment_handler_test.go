package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentHandler_EmployeeCreatesForOwnClient(t *testing.T) {
	h := newHandlers(t)
	me := h.user(t, domain.RoleEmployee)
	mine := testutil.CreateTestClient(t, h.db, "Mine", me)
	unassigned := testutil.CreateTestClient(t, h.db, "Nobody's", nil)

	w := serve(h.appts.Create, request(http.MethodPost, "/api/v1/appointments", domain.CreateAppointmentRequest{
		ClientID: mine.ID,
		Date:     "2025-05-20",
		Time:     "09:30",
	}, me, nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.AppointmentDTO](t, w)
	require.NotNil(t, created.UserID)
	assert.Equal(t, me.ID, *created.UserID)
	assert.Equal(t, "09:30", created.Time)
	assert.Equal(t, domain.AppointmentStatusScheduled, created.Status)

	w = serve(h.appts.Create, request(http.MethodPost, "/api/v1/appointments", domain.CreateAppointmentRequest{
		ClientID: unassigned.ID,
		Date:     "2025-05-20",
	}, me, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentHandler_EmployeeCannotAssignOthers(t *testing.T) {
	h := newHandlers(t)
	me := h.user(t, domain.RoleEmployee)
	colleague := h.user(t, domain.RoleEmployee)
	mine := testutil.CreateTestClient(t, h.db, "Mine", me)

	w := serve(h.appts.Create, request(http.MethodPost, "/api/v1/appointments", domain.CreateAppointmentRequest{
		ClientID: mine.ID,
		UserID:   &colleague.ID,
		Date:     "2025-05-20",
	}, me, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAppointmentHandler_ValidationAndFilters(t *testing.T) {
	h := newHandlers(t)
	manager := h.user(t, domain.RoleManager)
	client := testutil.CreateTestClient(t, h.db, "Client", nil)
	other := testutil.CreateTestClient(t, h.db, "Other", nil)
	testutil.CreateTestAppointment(t, h.db, client, manager, time.Now())
	testutil.CreateTestAppointment(t, h.db, other, manager, time.Now())

	w := serve(h.appts.Create, request(http.MethodPost, "/", domain.CreateAppointmentRequest{
		ClientID: client.ID,
		Date:     "20.05.2025",
		Time:     "9h",
	}, manager, nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[domain.APIError](t, w)
	assert.Contains(t, body.Errors, "date")
	assert.Contains(t, body.Errors, "time")

	w = serve(h.appts.List, request(http.MethodGet, "/api/v1/appointments?clientId="+client.ID.String(), nil, manager, nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]domain.AppointmentDTO](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, client.ID, list[0].ClientID)

	w = serve(h.appts.List, request(http.MethodGet, "/api/v1/appointments?clientId=abc", nil, manager, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentHandler_UpdateAndDelete(t *testing.T) {
	h := newHandlers(t)
	manager := h.user(t, domain.RoleManager)
	employee := h.user(t, domain.RoleEmployee)
	client := testutil.CreateTestClient(t, h.db, "Client", employee)
	appt := testutil.CreateTestAppointment(t, h.db, client, employee, time.Now())
	params := map[string]string{"id": appt.ID.String()}

	w := serve(h.appts.Update, request(http.MethodPut, "/", domain.UpdateAppointmentRequest{
		ClientID: client.ID,
		Date:     "2025-06-01",
		Status:   domain.AppointmentStatusCompleted,
		Notes:    "went well",
	}, manager, params))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.AppointmentDTO](t, w)
	assert.Equal(t, domain.AppointmentStatusCompleted, updated.Status)
	assert.Equal(t, "2025-06-01", updated.Date)
	require.NotNil(t, updated.UserID)
	assert.Equal(t, employee.ID, *updated.UserID)

	w = serve(h.appts.Delete, request(http.MethodDelete, "/", nil, h.user(t, domain.RoleEmployee), params))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(h.appts.Delete, request(http.MethodDelete, "/", nil, employee, params))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(h.appts.GetByID, request(http.MethodGet, "/", nil, manager, params))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
