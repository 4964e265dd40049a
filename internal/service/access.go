package service

import (
	"context"
	"fmt"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// authorize returns the caller if their role grants action on entity
func authorize(ctx context.Context, entity domain.Entity, action domain.Action) (*auth.UserContext, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.Can(entity, action) {
		return nil, fmt.Errorf("%s %s: %w", action, entity, ErrPermissionDenied)
	}
	return userCtx, nil
}

// validateRequest runs struct validation. The returned error wraps both
// ErrInvalidInput and the validator's field errors.
func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
