package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/carelink/internal/models"
)

// SlotQuery identifies one bookable (doctor, date, time) triple.
type SlotQuery struct {
	DoctorID string
	Date     string
	Time     string
	// IncludeCancelled counts cancelled appointments as occupying the slot.
	IncludeCancelled bool
}

type ListFilter struct {
	Date   string
	Status string
}

type Repository interface {
	// -------- Appointment (create / conflict) --------
	SlotTaken(
		ctx context.Context,
		q SlotQuery,
	) (bool, error)

	// CreateIfSlotFree re-checks the slot and inserts in one transaction.
	// A taken slot yields httperr.ErrBusiness("slot_unavailable").
	CreateIfSlotFree(
		ctx context.Context,
		ap *models.Appointment,
		includeCancelled bool,
	) error

	// -------- Appointment (queries) --------
	GetAppointment(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	ListByEmail(
		ctx context.Context,
		email string,
	) ([]models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, error)

	ListTakenTimes(
		ctx context.Context,
		doctorID string,
		date string,
		includeCancelled bool,
	) ([]string, error)

	ListBillable(
		ctx context.Context,
	) ([]models.Appointment, error)

	ListForReminder(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	// ChangeStatus persists ap's status and refund fields as a
	// compare-and-set against from; a lost race is invalid_state.
	ChangeStatus(
		ctx context.Context,
		ap *models.Appointment,
		from string,
	) error

	// MarkReminderSent stamps an active, unreminded appointment.
	MarkReminderSent(
		ctx context.Context,
		id string,
		at time.Time,
	) (bool, error)
}
