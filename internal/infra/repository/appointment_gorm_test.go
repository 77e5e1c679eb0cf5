package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
	"github.com/BruksfildServices01/carelink/internal/testutil"
)

func newAppointment(doctorID, date, tm, email string, status domain.Status) *models.Appointment {
	return &models.Appointment{
		PatientName: "Jane Doe",
		Email:       email,
		Phone:       "555-0100",
		DoctorID:    doctorID,
		Date:        date,
		Time:        tm,
		Reason:      "Checkup",
		Status:      string(status),
	}
}

func TestCreateIfSlotFree(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	first := newAppointment("doc-1", "2024-01-10", "09:00", "jane@example.com", domain.StatusPending)
	require.NoError(t, repo.CreateIfSlotFree(ctx, first, true))
	assert.NotEmpty(t, first.ID)

	second := newAppointment("doc-1", "2024-01-10", "09:00", "john@example.com", domain.StatusPending)
	err := repo.CreateIfSlotFree(ctx, second, true)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))

	other := newAppointment("doc-1", "2024-01-10", "09:30", "john@example.com", domain.StatusPending)
	assert.NoError(t, repo.CreateIfSlotFree(ctx, other, true))
}

func TestSlotTaken_CancelledPolicy(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	cancelled := newAppointment("doc-1", "2024-01-10", "09:00", "jane@example.com", domain.StatusCancelled)
	require.NoError(t, repo.CreateIfSlotFree(ctx, cancelled, true))

	taken, err := repo.SlotTaken(ctx, domain.SlotQuery{
		DoctorID: "doc-1", Date: "2024-01-10", Time: "09:00", IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlotTaken(ctx, domain.SlotQuery{
		DoctorID: "doc-1", Date: "2024-01-10", Time: "09:00", IncludeCancelled: false,
	})
	require.NoError(t, err)
	assert.False(t, taken)

	rebook := newAppointment("doc-1", "2024-01-10", "09:00", "john@example.com", domain.StatusPending)
	assert.True(t, httperr.IsBusiness(repo.CreateIfSlotFree(ctx, rebook, true), "slot_unavailable"))
	assert.NoError(t, repo.CreateIfSlotFree(ctx, rebook, false))
}

func TestActiveSlotUniqueIndex(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, db.Create(newAppointment("doc-1", "2024-01-10", "09:00", "a@example.com", domain.StatusPending)).Error)
	err := db.Create(newAppointment("doc-1", "2024-01-10", "09:00", "b@example.com", domain.StatusConfirmed)).Error

	assert.True(t, httperr.IsUniqueViolation(err))

	// cancelled and completed rows are outside the index
	assert.NoError(t, db.Create(newAppointment("doc-1", "2024-01-10", "09:00", "c@example.com", domain.StatusCancelled)).Error)
	assert.NoError(t, db.Create(newAppointment("doc-1", "2024-01-10", "09:00", "d@example.com", domain.StatusCompleted)).Error)
}

func TestListByEmail_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	ap := newAppointment("doc-1", "2024-01-10", "09:00", "Jane.Doe@Example.com", domain.StatusPending)
	require.NoError(t, repo.CreateIfSlotFree(ctx, ap, true))
	require.NoError(t, repo.CreateIfSlotFree(ctx, newAppointment("doc-1", "2024-01-10", "10:00", "other@example.com", domain.StatusPending), true))

	apps, err := repo.ListByEmail(ctx, "  jane.doe@example.com ")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, ap.ID, apps[0].ID)
	assert.Equal(t, "Jane.Doe@Example.com", apps[0].Email)
}

func TestGetAppointment_NotFound(t *testing.T) {
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	_, err := repo.GetAppointment(context.Background(), "missing")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestListTakenTimesAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	require.NoError(t, repo.CreateIfSlotFree(ctx, newAppointment("doc-1", "2024-01-10", "09:00", "a@example.com", domain.StatusPending), true))
	require.NoError(t, repo.CreateIfSlotFree(ctx, newAppointment("doc-1", "2024-01-10", "10:00", "b@example.com", domain.StatusCancelled), true))
	require.NoError(t, repo.CreateIfSlotFree(ctx, newAppointment("doc-2", "2024-01-10", "11:00", "c@example.com", domain.StatusConfirmed), true))

	times, err := repo.ListTakenTimes(ctx, "doc-1", "2024-01-10", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"09:00"}, times)

	times, err = repo.ListTakenTimes(ctx, "doc-1", "2024-01-10", true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"09:00", "10:00"}, times)

	confirmed, err := repo.ListAppointments(ctx, domain.ListFilter{Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "doc-2", confirmed[0].DoctorID)

	all, err := repo.ListAppointments(ctx, domain.ListFilter{Date: "2024-01-10"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListForReminder(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	due := newAppointment("doc-1", "2024-01-11", "09:00", "a@example.com", domain.StatusConfirmed)
	sent := newAppointment("doc-1", "2024-01-11", "10:00", "b@example.com", domain.StatusPending)
	now := time.Now()
	sent.ReminderSentAt = &now
	cancelled := newAppointment("doc-1", "2024-01-11", "11:00", "c@example.com", domain.StatusCancelled)

	for _, ap := range []*models.Appointment{due, sent, cancelled} {
		require.NoError(t, repo.CreateIfSlotFree(ctx, ap, true))
	}

	apps, err := repo.ListForReminder(ctx, "2024-01-11")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, due.ID, apps[0].ID)
}

func TestListBillableAndChangeStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	paid := newAppointment("doc-2", "2024-02-01", "14:00", "a@example.com", domain.StatusConfirmed)
	paid.ConsultationFee = 500
	paid.PaymentMethod = "UPI"
	require.NoError(t, repo.CreateIfSlotFree(ctx, paid, true))
	require.NoError(t, repo.CreateIfSlotFree(ctx, newAppointment("doc-1", "2024-02-01", "14:00", "b@example.com", domain.StatusPending), true))

	apps, err := repo.ListBillable(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)

	apps[0].Status = string(domain.StatusCompleted)
	require.NoError(t, repo.ChangeStatus(ctx, &apps[0], "confirmed"))

	got, err := repo.GetAppointment(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 500.0, got.ConsultationFee)
	assert.Equal(t, "UPI", got.PaymentMethod)
}

func TestChangeStatusRejectsStaleCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))

	ap := newAppointment("doc-1", "2024-02-01", "09:00", "a@example.com", domain.StatusConfirmed)
	require.NoError(t, repo.CreateIfSlotFree(ctx, ap, true))

	stale, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)

	cancelled := *stale
	cancelled.Status = string(domain.StatusCancelled)
	require.NoError(t, repo.ChangeStatus(ctx, &cancelled, "confirmed"))

	stale.Status = string(domain.StatusCompleted)
	err = repo.ChangeStatus(ctx, stale, "confirmed")
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	got, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
}

func TestMarkReminderSent(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentGormRepository(testutil.NewDB(t))
	at := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)

	active := newAppointment("doc-1", "2024-01-11", "09:00", "a@example.com", domain.StatusConfirmed)
	cancelled := newAppointment("doc-1", "2024-01-11", "09:30", "b@example.com", domain.StatusCancelled)
	for _, ap := range []*models.Appointment{active, cancelled} {
		require.NoError(t, repo.CreateIfSlotFree(ctx, ap, true))
	}

	ok, err := repo.MarkReminderSent(ctx, active.ID, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkReminderSent(ctx, active.ID, at)
	require.NoError(t, err)
	assert.False(t, ok, "already stamped")

	ok, err = repo.MarkReminderSent(ctx, cancelled.ID, at)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetAppointment(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	require.NotNil(t, got.ReminderSentAt)

	got, err = repo.GetAppointment(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReminderSentAt)
}
