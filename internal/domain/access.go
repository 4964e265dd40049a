package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Entity names a table governed by the role capability table
type Entity string

const (
	EntityUsers        Entity = "users"
	EntityClients      Entity = "clients"
	EntityAppointments Entity = "appointments"
	EntityHRLeaves     Entity = "hr_leaves"
	EntityDocuments    Entity = "documents"
	EntityNotes        Entity = "notes"
	EntityActivityLogs Entity = "activity_logs"
	EntityChatMessages Entity = "chat_messages"
)

// Entities lists every governed entity
var Entities = []Entity{
	EntityUsers,
	EntityClients,
	EntityAppointments,
	EntityHRLeaves,
	EntityDocuments,
	EntityNotes,
	EntityActivityLogs,
	EntityChatMessages,
}

// Scope describes which rows of an entity a role may see
type Scope int

const (
	// ScopeNone grants no rows
	ScopeNone Scope = iota
	// ScopeAll grants every row
	ScopeAll
	// ScopeOwn grants rows owned by the caller (user_id, or assigned_to_user_id for clients)
	ScopeOwn
	// ScopeAssignedClients grants rows whose client is assigned to the caller
	ScopeAssignedClients
)

func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeOwn:
		return "own"
	case ScopeAssignedClients:
		return "assigned_clients"
	default:
		return "none"
	}
}

// MarshalText renders the scope by name in JSON
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scope) UnmarshalText(text []byte) error {
	switch string(text) {
	case "all":
		*s = ScopeAll
	case "own":
		*s = ScopeOwn
	case "assigned_clients":
		*s = ScopeAssignedClients
	case "none":
		*s = ScopeNone
	default:
		return fmt.Errorf("unknown scope %q", text)
	}
	return nil
}

// Action is a mutation or read checked against a Capability
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
)

// Capability is what one role may do on one entity
type Capability struct {
	Read    Scope `json:"read"`
	Create  bool  `json:"create"`
	Update  bool  `json:"update"`
	Delete  bool  `json:"delete"`
	Approve bool  `json:"approve"`
}

// Allows reports whether the action is granted
func (c Capability) Allows(a Action) bool {
	switch a {
	case ActionRead:
		return c.Read != ScopeNone
	case ActionCreate:
		return c.Create
	case ActionUpdate:
		return c.Update
	case ActionDelete:
		return c.Delete
	case ActionApprove:
		return c.Approve
	}
	return false
}

var (
	fullAccess = Capability{Read: ScopeAll, Create: true, Update: true, Delete: true}
	noAccess   = Capability{Read: ScopeNone}
	ownChat    = Capability{Read: ScopeOwn, Create: true}
)

// CapabilitiesFor returns the capability of role on entity. Unknown roles and
// entities get no access.
func CapabilitiesFor(role Role, entity Entity) Capability {
	switch role {
	case RoleAdmin:
		switch entity {
		case EntityUsers, EntityClients, EntityAppointments, EntityDocuments, EntityNotes:
			return fullAccess
		case EntityHRLeaves:
			return Capability{Read: ScopeAll, Create: true, Delete: true, Approve: true}
		case EntityActivityLogs:
			return Capability{Read: ScopeAll}
		case EntityChatMessages:
			return ownChat
		}
	case RoleManager:
		switch entity {
		case EntityUsers:
			return Capability{Read: ScopeAll}
		case EntityClients, EntityAppointments, EntityDocuments, EntityNotes:
			return fullAccess
		case EntityHRLeaves:
			return Capability{Read: ScopeAll, Create: true, Delete: true, Approve: true}
		case EntityActivityLogs:
			return noAccess
		case EntityChatMessages:
			return ownChat
		}
	case RoleEmployee:
		switch entity {
		case EntityUsers, EntityActivityLogs:
			return noAccess
		case EntityClients:
			return Capability{Read: ScopeOwn, Create: true, Update: true}
		case EntityAppointments:
			return Capability{Read: ScopeOwn, Create: true, Update: true, Delete: true}
		case EntityHRLeaves:
			return Capability{Read: ScopeOwn, Create: true}
		case EntityDocuments, EntityNotes:
			return Capability{Read: ScopeAssignedClients, Create: true}
		case EntityChatMessages:
			return ownChat
		}
	}
	return noAccess
}

// CapabilityMatrix returns the capability of role for every entity
func CapabilityMatrix(role Role) map[Entity]Capability {
	m := make(map[Entity]Capability, len(Entities))
	for _, e := range Entities {
		m[e] = CapabilitiesFor(role, e)
	}
	return m
}

// OwnerColumn is the column compared against the caller for ScopeOwn
func OwnerColumn(entity Entity) string {
	switch entity {
	case EntityUsers:
		return "id"
	case EntityClients:
		return "assigned_to_user_id"
	default:
		return "user_id"
	}
}

// Ownership is the part of a row the scope predicates inspect
type Ownership struct {
	// Owner is the user the row belongs to (nil when unassigned)
	Owner *uuid.UUID
	// ClientAssignee is the assignee of the row's client, for client-attached rows
	ClientAssignee *uuid.UUID
}

// Owned is implemented by every scoped model
type Owned interface {
	Ownership() Ownership
}

// Predicate is a role's read filter on one entity, bound to the caller
type Predicate struct {
	Entity Entity
	Scope  Scope
	UserID uuid.UUID
}

// PredicateFor builds the read predicate for the caller
func PredicateFor(role Role, userID uuid.UUID, entity Entity) Predicate {
	return Predicate{
		Entity: entity,
		Scope:  CapabilitiesFor(role, entity).Read,
		UserID: userID,
	}
}

// Matches evaluates the predicate against a row in memory
func (p Predicate) Matches(row Owned) bool {
	o := row.Ownership()
	switch p.Scope {
	case ScopeAll:
		return true
	case ScopeOwn:
		return o.Owner != nil && *o.Owner == p.UserID
	case ScopeAssignedClients:
		return o.ClientAssignee != nil && *o.ClientAssignee == p.UserID
	default:
		return false
	}
}

// MenuItem is one navigation entry
type MenuItem struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var menuItems = []MenuItem{
	{Key: "nav.dashboard", Path: "/dashboard"},
	{Key: "nav.users", Path: "/users"},
	{Key: "nav.clients", Path: "/clients"},
	{Key: "nav.appointments", Path: "/appointments"},
	{Key: "nav.documents", Path: "/documents"},
	{Key: "nav.notes", Path: "/notes"},
	{Key: "nav.hr", Path: "/hr"},
	{Key: "nav.activity", Path: "/activity"},
	{Key: "nav.chat", Path: "/chat"},
}

// menuVisible is the navigation table; users and activity are admin pages
func menuVisible(role Role, key string) bool {
	switch key {
	case "nav.users", "nav.activity":
		return role == RoleAdmin
	case "nav.dashboard", "nav.clients", "nav.appointments", "nav.documents", "nav.notes", "nav.hr", "nav.chat":
		return role.IsValid()
	}
	return false
}

// MenuFor returns the navigation entries visible to role, untranslated
func MenuFor(role Role) []MenuItem {
	items := make([]MenuItem, 0, len(menuItems))
	for _, item := range menuItems {
		if menuVisible(role, item.Key) {
			items = append(items, item)
		}
	}
	return items
}
