package mapper

import (
	"fmt"
	"time"

	"github.com/carebase/admin-api/internal/domain"
	"gorm.io/datatypes"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// FormatDate renders a date column as YYYY-MM-DD
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(domain.DateLayout)
}

// FormatTime renders a time-of-day column as HH:MM
func FormatTime(t *datatypes.Time) string {
	if t == nil {
		return ""
	}
	d := time.Duration(*t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// ParseDate parses a YYYY-MM-DD string into a date column value
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return datatypes.Date(t), nil
}

// ParseOptionalDate returns nil for an empty string
func ParseOptionalDate(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseOptionalTime parses HH:MM, returning nil for an empty string
func ParseOptionalTime(s string) (*datatypes.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.TimeLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", s, err)
	}
	v := datatypes.NewTime(t.Hour(), t.Minute(), 0, 0)
	return &v, nil
}

func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:        user.ID,
		OrgID:     user.OrgID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: formatTimestamp(user.CreatedAt),
	}
}

func ToClientDTO(client *domain.Client) domain.ClientDTO {
	dto := domain.ClientDTO{
		ID:               client.ID,
		OrgID:            client.OrgID,
		Name:             client.Name,
		Email:            client.Email,
		Phone:            client.Phone,
		Address:          client.Address,
		Status:           client.Status,
		AssignedToUserID: client.AssignedToUserID,
		CreatedAt:        formatTimestamp(client.CreatedAt),
		UpdatedAt:        formatTimestamp(client.UpdatedAt),
	}
	if client.ServiceStartDate != nil {
		dto.ServiceStartDate = FormatDate(*client.ServiceStartDate)
	}
	if client.AssignedTo != nil {
		dto.AssignedToName = client.AssignedTo.FullName
	}
	return dto
}

func ToAppointmentDTO(appt *domain.Appointment) domain.AppointmentDTO {
	dto := domain.AppointmentDTO{
		ID:        appt.ID,
		ClientID:  appt.ClientID,
		UserID:    appt.UserID,
		Date:      FormatDate(appt.Date),
		Time:      FormatTime(appt.Time),
		Status:    appt.Status,
		Notes:     appt.Notes,
		CreatedAt: formatTimestamp(appt.CreatedAt),
	}
	if appt.Client != nil {
		dto.ClientName = appt.Client.Name
	}
	if appt.User != nil {
		dto.UserName = appt.User.FullName
	}
	return dto
}

func ToHRLeaveDTO(leave *domain.HRLeave) domain.HRLeaveDTO {
	dto := domain.HRLeaveDTO{
		ID:         leave.ID,
		UserID:     leave.UserID,
		Type:       leave.Type,
		DateFrom:   FormatDate(leave.DateFrom),
		DateTo:     FormatDate(leave.DateTo),
		Reason:     leave.Reason,
		Status:     leave.Status,
		ApprovedBy: leave.ApprovedBy,
		CreatedAt:  formatTimestamp(leave.CreatedAt),
	}
	if leave.DecidedAt != nil {
		dto.DecidedAt = formatTimestamp(*leave.DecidedAt)
	}
	if leave.User != nil {
		dto.UserName = leave.User.FullName
	}
	return dto
}

func ToDocumentDTO(doc *domain.Document) domain.DocumentDTO {
	dto := domain.DocumentDTO{
		ID:          doc.ID,
		ClientID:    doc.ClientID,
		Filename:    doc.Filename,
		FileURL:     doc.FileURL,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		UploadedBy:  doc.UploadedBy,
		CreatedAt:   formatTimestamp(doc.CreatedAt),
	}
	if doc.Client != nil {
		dto.ClientName = doc.Client.Name
	}
	return dto
}

func ToNoteDTO(note *domain.Note) domain.NoteDTO {
	tags := []string(note.Tags)
	if tags == nil {
		tags = []string{}
	}
	dto := domain.NoteDTO{
		ID:        note.ID,
		ClientID:  note.ClientID,
		UserID:    note.UserID,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: formatTimestamp(note.CreatedAt),
		UpdatedAt: formatTimestamp(note.UpdatedAt),
	}
	if note.Client != nil {
		dto.ClientName = note.Client.Name
	}
	return dto
}

func ToActivityLogDTO(entry *domain.ActivityLog) domain.ActivityLogDTO {
	dto := domain.ActivityLogDTO{
		ID:         entry.ID,
		UserID:     entry.UserID,
		ActionType: entry.ActionType,
		TargetID:   entry.TargetID,
		Details:    entry.Details,
		Metadata:   entry.Metadata,
		CreatedAt:  formatTimestamp(entry.CreatedAt),
	}
	if entry.User != nil {
		dto.UserName = entry.User.FullName
	}
	return dto
}

func ToChatMessageDTO(msg *domain.ChatMessage) domain.ChatMessageDTO {
	return domain.ChatMessageDTO{
		ID:         msg.ID,
		Message:    msg.Message,
		AIResponse: msg.AIResponse,
		CreatedAt:  formatTimestamp(msg.CreatedAt),
	}
}
