package domain

import "github.com/google/uuid"

// Response DTOs

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"orgId"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt string    `json:"createdAt"`
}

type ClientDTO struct {
	ID               uuid.UUID    `json:"id"`
	OrgID            uuid.UUID    `json:"orgId"`
	Name             string       `json:"name"`
	Email            string       `json:"email,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Address          string       `json:"address,omitempty"`
	Status           ClientStatus `json:"status"`
	ServiceStartDate string       `json:"serviceStartDate,omitempty"`
	AssignedToUserID *uuid.UUID   `json:"assignedToUserId,omitempty"`
	AssignedToName   string       `json:"assignedToName,omitempty"`
	CreatedAt        string       `json:"createdAt"`
	UpdatedAt        string       `json:"updatedAt"`
}

type AppointmentDTO struct {
	ID         uuid.UUID         `json:"id"`
	ClientID   uuid.UUID         `json:"clientId"`
	ClientName string            `json:"clientName,omitempty"`
	UserID     *uuid.UUID        `json:"userId,omitempty"`
	UserName   string            `json:"userName,omitempty"`
	Date       string            `json:"date"`
	Time       string            `json:"time,omitempty"`
	Status     AppointmentStatus `json:"status"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  string            `json:"createdAt"`
}

type HRLeaveDTO struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	UserName   string      `json:"userName,omitempty"`
	Type       LeaveType   `json:"type"`
	DateFrom   string      `json:"dateFrom"`
	DateTo     string      `json:"dateTo"`
	Reason     string      `json:"reason,omitempty"`
	Status     LeaveStatus `json:"status"`
	ApprovedBy *uuid.UUID  `json:"approvedBy,omitempty"`
	DecidedAt  string      `json:"decidedAt,omitempty"`
	CreatedAt  string      `json:"createdAt"`
}

type DocumentDTO struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    uuid.UUID  `json:"clientId"`
	ClientName  string     `json:"clientName,omitempty"`
	Filename    string     `json:"filename"`
	FileURL     string     `json:"fileUrl"`
	ContentType string     `json:"contentType,omitempty"`
	Size        int64      `json:"size"`
	UploadedBy  *uuid.UUID `json:"uploadedBy,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

type NoteDTO struct {
	ID         uuid.UUID `json:"id"`
	ClientID   uuid.UUID `json:"clientId"`
	ClientName string    `json:"clientName,omitempty"`
	UserID     uuid.UUID `json:"userId"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type ActivityLogDTO struct {
	ID         uuid.UUID              `json:"id"`
	UserID     *uuid.UUID             `json:"userId,omitempty"`
	UserName   string                 `json:"userName,omitempty"`
	ActionType string                 `json:"actionType"`
	TargetID   string                 `json:"targetId,omitempty"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  string                 `json:"createdAt"`
}

type ChatMessageDTO struct {
	ID         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	AIResponse string    `json:"aiResponse"`
	CreatedAt  string    `json:"createdAt"`
}

// DashboardDTO is the dashboard snapshot
type DashboardDTO struct {
	TotalUsers        int64            `json:"totalUsers"`
	TotalClients      int64            `json:"totalClients"`
	TotalAppointments int64            `json:"totalAppointments"`
	RecentActivity    []ActivityLogDTO `json:"recentActivity"`
}

// ClientProfileDTO is a client with the documents and appointments the caller may see
type ClientProfileDTO struct {
	Client       ClientDTO        `json:"client"`
	Documents    []DocumentDTO    `json:"documents"`
	Appointments []AppointmentDTO `json:"appointments"`
}

// SessionDTO is returned by sign-in, sign-up and refresh
type SessionDTO struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	TokenType    string  `json:"tokenType"`
	ExpiresIn    int     `json:"expiresIn"`
	User         UserDTO `json:"user"`
}

// MeDTO is the current user with what they may see and do
type MeDTO struct {
	User         UserDTO               `json:"user"`
	Language     string                `json:"language"`
	Capabilities map[Entity]Capability `json:"capabilities"`
	Menu         []MenuItem            `json:"menu"`
}

// LanguageDTO describes an available translation table
type LanguageDTO struct {
	Code    string `json:"code"`
	Default bool   `json:"default"`
}

// Request DTOs

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=200"`
	// Role is accepted for form compatibility and ignored
	Role string `json:"role,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"required,max=200"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Role     Role   `json:"role" validate:"required,oneof=admin manager employee"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	FullName string `json:"fullName" validate:"required,max=200"`
	Role     Role   `json:"role" validate:"required,oneof=admin manager employee"`
}

type CreateClientRequest struct {
	Name             string       `json:"name" validate:"required,notblank,max=200"`
	Email            string       `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone            string       `json:"phone,omitempty" validate:"max=50"`
	Address          string       `json:"address,omitempty" validate:"max=500"`
	Status           ClientStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive pending"`
	ServiceStartDate string       `json:"serviceStartDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AssignedToUserID *uuid.UUID   `json:"assignedToUserId,omitempty"`
}

type UpdateClientRequest struct {
	Name             string       `json:"name" validate:"required,notblank,max=200"`
	Email            string       `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone            string       `json:"phone,omitempty" validate:"max=50"`
	Address          string       `json:"address,omitempty" validate:"max=500"`
	Status           ClientStatus `json:"status" validate:"required,oneof=active inactive pending"`
	ServiceStartDate string       `json:"serviceStartDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AssignedToUserID *uuid.UUID   `json:"assignedToUserId,omitempty"`
}

type CreateAppointmentRequest struct {
	ClientID uuid.UUID         `json:"clientId" validate:"required"`
	UserID   *uuid.UUID        `json:"userId,omitempty"`
	Date     string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string            `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Status   AppointmentStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled completed cancelled no_show"`
	Notes    string            `json:"notes,omitempty" validate:"max=2000"`
}

type UpdateAppointmentRequest struct {
	ClientID uuid.UUID         `json:"clientId" validate:"required"`
	UserID   *uuid.UUID        `json:"userId,omitempty"`
	Date     string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string            `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Status   AppointmentStatus `json:"status" validate:"required,oneof=scheduled completed cancelled no_show"`
	Notes    string            `json:"notes,omitempty" validate:"max=2000"`
}

type CreateLeaveRequest struct {
	Type     LeaveType `json:"type" validate:"required,oneof=annual sick emergency personal"`
	DateFrom string    `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo   string    `json:"dateTo" validate:"required,datetime=2006-01-02"`
	Reason   string    `json:"reason,omitempty" validate:"max=1000"`
}

type CreateNoteRequest struct {
	ClientID uuid.UUID `json:"clientId" validate:"required"`
	Content  string    `json:"content" validate:"required,max=10000"`
	Tags     []string  `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type UpdateNoteRequest struct {
	Content string   `json:"content" validate:"required,max=10000"`
	Tags    []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// List filters

type ClientFilters struct {
	Status ClientStatus
	Search string
}

type AppointmentFilters struct {
	Status   AppointmentStatus
	ClientID *uuid.UUID
}

type LeaveFilters struct {
	Status LeaveStatus
}

type DocumentFilters struct {
	ClientID *uuid.UUID
}

type NoteFilters struct {
	ClientID *uuid.UUID
}
