package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

var activeStatuses = []string{string(domain.StatusPending), string(domain.StatusConfirmed)}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func slotScope(q domain.SlotQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(
			"doctor_id = ? AND appointment_date = ? AND appointment_time = ?",
			q.DoctorID, q.Date, q.Time,
		)
		if !q.IncludeCancelled {
			db = db.Where("status <> ?", string(domain.StatusCancelled))
		}
		return db
	}
}

func (r *AppointmentGormRepository) SlotTaken(
	ctx context.Context,
	q domain.SlotQuery,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Scopes(slotScope(q)).
		Count(&count).Error; err != nil {
		return false, httperr.ErrStore("slot_taken", err)
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) CreateIfSlotFree(
	ctx context.Context,
	ap *models.Appointment,
	includeCancelled bool,
) error {

	q := domain.SlotQuery{
		DoctorID:         ap.DoctorID,
		Date:             ap.Date,
		Time:             ap.Time,
		IncludeCancelled: includeCancelled,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var existing []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Scopes(slotScope(q)).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			return httperr.ErrBusiness("slot_unavailable")
		}

		return tx.Create(ap).Error
	})

	switch {
	case err == nil:
		return nil
	case httperr.IsBusiness(err, "slot_unavailable"), httperr.IsUniqueViolation(err):
		return httperr.ErrBusiness("slot_unavailable")
	default:
		return httperr.ErrStore("create_appointment", err)
	}
}

// --------------------------------------------------
// Appointment (queries)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, httperr.ErrStore("get_appointment", err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) ListByEmail(
	ctx context.Context,
	email string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, httperr.ErrStore("list_by_email", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.Date != "" {
		q = q.Where("appointment_date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var apps []models.Appointment
	if err := q.
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, httperr.ErrStore("list_appointments", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListTakenTimes(
	ctx context.Context,
	doctorID string,
	date string,
	includeCancelled bool,
) ([]string, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date)

	if !includeCancelled {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}

	var times []string
	if err := q.Pluck("appointment_time", &times).Error; err != nil {
		return nil, httperr.ErrStore("list_taken_times", err)
	}

	return times, nil
}

func (r *AppointmentGormRepository) ListBillable(
	ctx context.Context,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("consultation_fee > 0").
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, httperr.ErrStore("list_billable", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListForReminder(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"appointment_date = ? AND status IN ? AND reminder_sent_at IS NULL",
			date,
			activeStatuses,
		).
		Order("appointment_time ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.ErrStore("list_for_reminder", err)
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

// ChangeStatus writes the status and refund fields of ap only while the
// stored status is still from. Any concurrent change yields invalid_state.
func (r *AppointmentGormRepository) ChangeStatus(
	ctx context.Context,
	ap *models.Appointment,
	from string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, from).
		Updates(map[string]any{
			"status":           ap.Status,
			"refund_processed": ap.RefundProcessed,
			"refund_date":      ap.RefundDate,
		})
	if res.Error != nil {
		return httperr.ErrStore("change_status", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}

	return nil
}

// MarkReminderSent stamps reminder_sent_at if the appointment is still
// active and unreminded. It reports whether the row was stamped.
func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	id string,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"id = ? AND status IN ? AND reminder_sent_at IS NULL",
			id,
			activeStatuses,
		).
		Update("reminder_sent_at", at)
	if res.Error != nil {
		return false, httperr.ErrStore("mark_reminder_sent", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
