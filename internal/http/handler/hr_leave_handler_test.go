package handler_test

import (
	"net/http"
	"testing"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHRLeaveHandler_CreateIsPendingForCaller(t *testing.T) {
	h := newHandlers(t)
	employee := h.user(t, domain.RoleEmployee)

	w := serve(h.leaves.Create, request(http.MethodPost, "/api/v1/hr/leaves", domain.CreateLeaveRequest{
		Type:     domain.LeaveTypeSick,
		DateFrom: "2025-04-01",
		DateTo:   "2025-04-03",
		Reason:   "flu",
	}, employee, nil))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	leave := decode[domain.HRLeaveDTO](t, w)
	assert.Equal(t, domain.LeaveStatusPending, leave.Status)
	assert.Equal(t, employee.ID, leave.UserID)
	assert.Equal(t, "/api/v1/hr/leaves/"+leave.ID.String(), w.Header().Get("Location"))
}

func TestHRLeaveHandler_CreateRejectsBadRange(t *testing.T) {
	h := newHandlers(t)
	employee := h.user(t, domain.RoleEmployee)

	w := serve(h.leaves.Create, request(http.MethodPost, "/", domain.CreateLeaveRequest{
		Type:     domain.LeaveTypeAnnual,
		DateFrom: "2025-04-10",
		DateTo:   "2025-04-01",
	}, employee, nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[domain.APIError](t, w).Detail, "dateTo")
}

func TestHRLeaveHandler_Decide(t *testing.T) {
	h := newHandlers(t)
	employee := h.user(t, domain.RoleEmployee)
	manager := h.user(t, domain.RoleManager)

	tests := []struct {
		name   string
		caller *domain.User
		reject bool
		status int
		want   domain.LeaveStatus
	}{
		{name: "employee cannot approve", caller: employee, status: http.StatusForbidden},
		{name: "manager approves", caller: manager, status: http.StatusOK, want: domain.LeaveStatusApproved},
		{name: "manager rejects", caller: manager, reject: true, status: http.StatusOK, want: domain.LeaveStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leave := testutil.CreateTestLeave(t, h.db, employee)
			params := map[string]string{"id": leave.ID.String()}
			fn := h.leaves.Approve
			if tt.reject {
				fn = h.leaves.Reject
			}

			w := serve(fn, request(http.MethodPost, "/", nil, tt.caller, params))
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			decided := decode[domain.HRLeaveDTO](t, w)
			assert.Equal(t, tt.want, decided.Status)
			require.NotNil(t, decided.ApprovedBy)
			assert.Equal(t, manager.ID, *decided.ApprovedBy)

			// a decided request cannot be decided again
			w = serve(h.leaves.Approve, request(http.MethodPost, "/", nil, tt.caller, params))
			assert.Equal(t, http.StatusConflict, w.Code)
		})
	}
}

func TestHRLeaveHandler_ListScope(t *testing.T) {
	h := newHandlers(t)
	me := h.user(t, domain.RoleEmployee)
	other := h.user(t, domain.RoleEmployee)
	admin := h.user(t, domain.RoleAdmin)
	mine := testutil.CreateTestLeave(t, h.db, me)
	testutil.CreateTestLeave(t, h.db, other)

	w := serve(h.leaves.List, request(http.MethodGet, "/api/v1/hr/leaves", nil, me, nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]domain.HRLeaveDTO](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	w = serve(h.leaves.List, request(http.MethodGet, "/api/v1/hr/leaves?status=pending", nil, admin, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.HRLeaveDTO](t, w), 2)

	w = serve(h.leaves.Delete, request(http.MethodDelete, "/", nil, me, map[string]string{"id": mine.ID.String()}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(h.leaves.Delete, request(http.MethodDelete, "/", nil, admin, map[string]string{"id": mine.ID.String()}))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
