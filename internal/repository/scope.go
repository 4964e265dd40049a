package repository

import (
	"context"
	"strings"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/domain"
	"gorm.io/gorm"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string // API field name
	Order SortOrder
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause maps an API sort field to a whitelisted column.
// Unknown fields sort by defaultColumn.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyScope restricts query to the rows the caller may read on entity.
// A context without a caller sees nothing.
func ApplyScope(ctx context.Context, query *gorm.DB, entity domain.Entity) *gorm.DB {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return query.Where("1 = 0")
	}
	return ApplyPredicate(query, userCtx.Predicate(entity))
}

// ApplyPredicate translates a read predicate into WHERE clauses. Columns are
// qualified with the entity's table so the scope survives joins.
func ApplyPredicate(query *gorm.DB, p domain.Predicate) *gorm.DB {
	table := string(p.Entity)

	switch p.Scope {
	case domain.ScopeAll:
		return query
	case domain.ScopeOwn:
		return query.Where(table+"."+domain.OwnerColumn(p.Entity)+" = ?", p.UserID)
	case domain.ScopeAssignedClients:
		return query.Where(table+".client_id IN (SELECT id FROM clients WHERE assigned_to_user_id = ?)", p.UserID)
	default:
		return query.Where("1 = 0")
	}
}
