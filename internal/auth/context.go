package auth

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
)

// UserContext holds the authenticated caller for the lifetime of a request
type UserContext struct {
	UserID   uuid.UUID
	OrgID    uuid.UUID
	Email    string
	FullName string
	Role     domain.Role
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// Capability returns what the caller may do on entity
func (u *UserContext) Capability(entity domain.Entity) domain.Capability {
	return domain.CapabilitiesFor(u.Role, entity)
}

// Can reports whether the caller may perform action on entity
func (u *UserContext) Can(entity domain.Entity, action domain.Action) bool {
	return u.Capability(entity).Allows(action)
}

// Predicate returns the caller's read predicate on entity
func (u *UserContext) Predicate(entity domain.Entity) domain.Predicate {
	return domain.PredicateFor(u.Role, u.UserID, entity)
}
