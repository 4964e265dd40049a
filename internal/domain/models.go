package domain

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for appointment times
const TimeLayout = "15:04"

// BaseModel contains common fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// BeforeCreate assigns a client-side id so rows are addressable before the insert returns
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Role is the closed set of user roles
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Roles lists every valid role
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// IsAssignable reports whether a client or appointment may be assigned to this role
func (r Role) IsAssignable() bool {
	return r == RoleManager || r == RoleEmployee
}

// ParseRole converts a string into a Role, rejecting anything outside the closed set
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusPending  ClientStatus = "pending"
)

func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive, ClientStatusPending:
		return true
	}
	return false
}

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// LeaveType represents the kind of HR leave
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypePersonal  LeaveType = "personal"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypeEmergency, LeaveTypePersonal:
		return true
	}
	return false
}

// LeaveStatus represents where a leave request is in its review
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

func (s LeaveStatus) IsValid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a leave may move from s to next.
// Only pending requests can be decided, and only to approved or rejected.
func (s LeaveStatus) CanTransitionTo(next LeaveStatus) bool {
	return s == LeaveStatusPending && (next == LeaveStatusApproved || next == LeaveStatusRejected)
}

// TagList is a text array column (text[] on PostgreSQL)
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	return pq.StringArray(t).Value()
}

func (t *TagList) Scan(src interface{}) error {
	return (*pq.StringArray)(t).Scan(src)
}

func (TagList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Organization groups users and clients
type Organization struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null" json:"name"`
}

// User is both the login account and the profile row
type User struct {
	BaseModel
	UpdatedAt    time.Time `json:"updatedAt"`
	OrgID        uuid.UUID `gorm:"type:uuid;not null;index" json:"orgId"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName     string    `gorm:"type:varchar(200)" json:"fullName"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

func (u *User) Ownership() Ownership {
	return Ownership{Owner: &u.ID}
}

// Client is a person receiving services
type Client struct {
	BaseModel
	UpdatedAt        time.Time       `json:"updatedAt"`
	OrgID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"orgId"`
	Name             string          `gorm:"type:varchar(200);not null" json:"name"`
	Email            string          `gorm:"type:varchar(255)" json:"email"`
	Phone            string          `gorm:"type:varchar(50)" json:"phone"`
	Address          string          `gorm:"type:text" json:"address"`
	Status           ClientStatus    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	ServiceStartDate *datatypes.Date `json:"serviceStartDate"`
	AssignedToUserID *uuid.UUID      `gorm:"type:uuid;index" json:"assignedToUserId"`
	AssignedTo       *User           `gorm:"foreignKey:AssignedToUserID" json:"assignedTo,omitempty"`
}

func (c *Client) Ownership() Ownership {
	return Ownership{Owner: c.AssignedToUserID}
}

// Appointment is a scheduled visit with a client
type Appointment struct {
	BaseModel
	UpdatedAt time.Time         `json:"updatedAt"`
	ClientID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"clientId"`
	Client    *Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"userId"`
	User      *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date      datatypes.Date    `gorm:"not null" json:"date"`
	Time      *datatypes.Time   `json:"time"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:scheduled" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes"`
}

func (a *Appointment) Ownership() Ownership {
	return Ownership{Owner: a.UserID}
}

// HRLeave is a leave request raised by a user
type HRLeave struct {
	BaseModel
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	User       *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type       LeaveType      `gorm:"type:varchar(20);not null" json:"type"`
	DateFrom   datatypes.Date `gorm:"not null" json:"dateFrom"`
	DateTo     datatypes.Date `gorm:"not null" json:"dateTo"`
	Reason     string         `gorm:"type:text" json:"reason"`
	Status     LeaveStatus    `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	ApprovedBy *uuid.UUID     `gorm:"type:uuid" json:"approvedBy"`
	DecidedAt  *time.Time     `json:"decidedAt"`
}

func (HRLeave) TableName() string {
	return "hr_leaves"
}

func (l *HRLeave) Ownership() Ownership {
	return Ownership{Owner: &l.UserID}
}

// Document is an uploaded file attached to a client
type Document struct {
	BaseModel
	ClientID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"clientId"`
	Client      *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid" json:"uploadedBy"`
	Filename    string     `gorm:"type:varchar(255);not null" json:"filename"`
	FileURL     string     `gorm:"type:text;not null" json:"fileUrl"`
	StorageKey  string     `gorm:"type:varchar(500);not null" json:"-"`
	ContentType string     `gorm:"type:varchar(100)" json:"contentType"`
	Size        int64      `json:"size"`
}

func (d *Document) Ownership() Ownership {
	o := Ownership{}
	if d.Client != nil {
		o.ClientAssignee = d.Client.AssignedToUserID
	}
	return o
}

// Note is a free-text remark on a client
type Note struct {
	BaseModel
	UpdatedAt time.Time `json:"updatedAt"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	Client    *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Tags      TagList   `json:"tags"`
}

func (n *Note) Ownership() Ownership {
	o := Ownership{Owner: &n.UserID}
	if n.Client != nil {
		o.ClientAssignee = n.Client.AssignedToUserID
	}
	return o
}

// Activity action types
const (
	ActionUserSignedUp       = "user_signed_up"
	ActionUserCreated        = "user_created"
	ActionUserUpdated        = "user_updated"
	ActionUserDeleted        = "user_deleted"
	ActionProfileUpdated     = "profile_updated"
	ActionClientCreated      = "client_created"
	ActionClientUpdated      = "client_updated"
	ActionClientDeleted      = "client_deleted"
	ActionAppointmentCreated = "appointment_created"
	ActionAppointmentUpdated = "appointment_updated"
	ActionAppointmentDeleted = "appointment_deleted"
	ActionLeaveRequested     = "leave_requested"
	ActionLeaveApproved      = "leave_approved"
	ActionLeaveRejected      = "leave_rejected"
	ActionLeaveDeleted       = "leave_deleted"
	ActionDocumentUploaded   = "document_uploaded"
	ActionDocumentDeleted    = "document_deleted"
	ActionNoteCreated        = "note_created"
	ActionNoteUpdated        = "note_updated"
	ActionNoteDeleted        = "note_deleted"
)

// ActivityLog is the append-only audit trail of mutations
type ActivityLog struct {
	BaseModel
	UserID     *uuid.UUID        `gorm:"type:uuid;index" json:"userId"`
	User       *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ActionType string            `gorm:"type:varchar(50);not null;index" json:"actionType"`
	TargetID   string            `gorm:"type:varchar(100)" json:"targetId"`
	Details    string            `gorm:"type:text" json:"details"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
}

func (a *ActivityLog) Ownership() Ownership {
	return Ownership{Owner: a.UserID}
}

// ChatMessage is one exchange with the assistant
type ChatMessage struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	AIResponse string    `gorm:"type:text" json:"aiResponse"`
}

func (m *ChatMessage) Ownership() Ownership {
	return Ownership{Owner: &m.UserID}
}

// RefreshToken is a hashed, revocable session token
type RefreshToken struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"not null;default:false"`
}

// AllModels lists every persisted model, in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&Organization{},
		&User{},
		&Client{},
		&Appointment{},
		&HRLeave{},
		&Document{},
		&Note{},
		&ActivityLog{},
		&ChatMessage{},
		&RefreshToken{},
	}
}
