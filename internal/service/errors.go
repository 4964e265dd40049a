package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Common service errors
var (
	// ErrPermissionDenied is returned when the caller's role lacks the capability
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is missing or outside the caller's scope
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when there is no authenticated caller
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when sign-in fails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRefreshToken is returned for unknown, revoked or expired refresh tokens
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// ErrEmailTaken is returned when an account with the email already exists
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidAssignee is returned when a client or appointment is assigned to an admin or unknown user
	ErrInvalidAssignee = fmt.Errorf("%w: assignee must be an existing manager or employee", ErrInvalidInput)

	// ErrInvalidTransition is returned when a leave request has already been decided
	ErrInvalidTransition = errors.New("leave request is not pending")

	// ErrInvalidDateRange is returned when a leave ends before it starts
	ErrInvalidDateRange = fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidInput)
)

// lookupError maps a repository lookup failure to ErrNotFound when the row is
// missing or filtered out by scope.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
