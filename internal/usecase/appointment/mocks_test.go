package appointment

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/infra/notify"
	"github.com/BruksfildServices01/carelink/internal/infra/payment"
	"github.com/BruksfildServices01/carelink/internal/models"
)

// ======================================================
// MockRepository
// ======================================================

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SlotTaken(ctx context.Context, q domain.SlotQuery) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CreateIfSlotFree(ctx context.Context, ap *models.Appointment, includeCancelled bool) error {
	args := m.Called(ctx, ap, includeCancelled)
	return args.Error(0)
}

func (m *MockRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockRepository) ListByEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) ListAppointments(ctx context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) ListTakenTimes(ctx context.Context, doctorID, date string, includeCancelled bool) ([]string, error) {
	args := m.Called(ctx, doctorID, date, includeCancelled)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) ListBillable(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) ListForReminder(ctx context.Context, date string) ([]models.Appointment, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockRepository) ChangeStatus(ctx context.Context, ap *models.Appointment, from string) error {
	args := m.Called(ctx, ap, from)
	return args.Error(0)
}

func (m *MockRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// ======================================================
// MockGateway
// ======================================================

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Name() string {
	return "mock"
}

func (m *MockGateway) CreateIntent(ctx context.Context, in payment.Intent) (payment.Receipt, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(payment.Receipt), args.Error(1)
}

// ======================================================
// Fakes
// ======================================================

type fakeDirectory struct {
	doctors []models.Doctor
	err     error
}

func (f *fakeDirectory) ListDoctors(context.Context) ([]models.Doctor, error) {
	return f.doctors, f.err
}

func (f *fakeDirectory) GetDoctor(_ context.Context, id string) (*models.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.doctors {
		if f.doctors[i].ID == id {
			return &f.doctors[i], nil
		}
	}
	return nil, httperr.ErrBusiness("doctor_not_found")
}

type recordingNotifier struct {
	sent []notify.Notification
}

func (r *recordingNotifier) Dispatch(n notify.Notification) {
	r.sent = append(r.sent, n)
}

var (
	drAlice = models.Doctor{ID: "dr-alice", Name: "Dr. Alice", Specialty: "General Medicine"}
	drBob   = models.Doctor{ID: "dr-bob", Name: "Dr. Bob", Specialty: "Cardiology", ConsultationFee: 500}
)

func newDirectory() *fakeDirectory {
	return &fakeDirectory{doctors: []models.Doctor{drAlice, drBob}}
}

func validRequest(doctorID string) domain.BookingRequest {
	return domain.BookingRequest{
		PatientName: "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "555-0100",
		DoctorID:    doctorID,
		Date:        "2024-01-10",
		Time:        "09:00",
		Reason:      "Checkup",
	}
}
