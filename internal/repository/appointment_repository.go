package repository

import (
	"context"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	return r.db.WithContext(ctx).Omit("Client", "User").Create(appt).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var appt domain.Appointment
	query := r.db.WithContext(ctx).Preload("Client").Preload("User").Where("appointments.id = ?", id)
	query = ApplyScope(ctx, query, domain.EntityAppointments)
	if err := query.First(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	return r.db.WithContext(ctx).Omit("Client", "User").Save(appt).Error
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Appointment{}, "id = ?", id).Error
}

// List returns the caller's visible appointments, latest date first
func (r *AppointmentRepository) List(ctx context.Context, filters domain.AppointmentFilters) ([]domain.Appointment, error) {
	var appts []domain.Appointment

	query := r.db.WithContext(ctx).Model(&domain.Appointment{}).Preload("Client").Preload("User")
	query = ApplyScope(ctx, query, domain.EntityAppointments)

	if filters.Status != "" {
		query = query.Where("appointments.status = ?", filters.Status)
	}
	if filters.ClientID != nil {
		query = query.Where("appointments.client_id = ?", *filters.ClientID)
	}

	err := query.Order("appointments.date DESC").Order("appointments.time DESC").Find(&appts).Error
	return appts, err
}

// Count returns the total number of appointments, ignoring caller scope
func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Appointment{}).Count(&count).Error
	return count, err
}
