// Package billing derives billing records from paid appointments.
package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/carelink/internal/audit"
	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

const (
	StatusPaid     = "paid"
	StatusRefunded = "refunded"

	defaultPaymentMethod = domain.PaymentUPI
)

type Record struct {
	AppointmentID string     `json:"appointment_id"`
	PatientName   string     `json:"patient_name"`
	Email         string     `json:"email"`
	DoctorID      string     `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	Reference     string     `json:"payment_reference,omitempty"`
	Status        string     `json:"status"`
	RefundDate    *time.Time `json:"refund_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Summary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalRefunds  float64 `json:"total_refunds"`
	PaidCount     int     `json:"paid_count"`
	RefundedCount int     `json:"refunded_count"`
}

type Report struct {
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}

// NewRecord maps a billable appointment to its billing view.
func NewRecord(ap models.Appointment, doctorName string) Record {
	status := StatusPaid
	if ap.Status == string(domain.StatusCancelled) {
		status = StatusRefunded
	}

	method := ap.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}

	return Record{
		AppointmentID: ap.ID,
		PatientName:   ap.PatientName,
		Email:         ap.Email,
		DoctorID:      ap.DoctorID,
		DoctorName:    doctorName,
		Date:          ap.Date,
		Time:          ap.Time,
		Amount:        ap.ConsultationFee,
		PaymentMethod: method,
		Reference:     ap.PaymentReference,
		Status:        status,
		RefundDate:    ap.RefundDate,
		CreatedAt:     ap.CreatedAt,
	}
}

func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusPaid:
			s.TotalRevenue += r.Amount
			s.PaidCount++
		case StatusRefunded:
			s.TotalRefunds += r.Amount
			s.RefundedCount++
		}
	}
	return s
}

// ======================================================
// SERVICE
// ======================================================

type Service struct {
	repo     domain.Repository
	dir      directory.Directory
	audit    *audit.Dispatcher
	invoices *InvoiceRenderer
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(
	repo domain.Repository,
	dir directory.Directory,
	audit *audit.Dispatcher,
	invoices *InvoiceRenderer,
	now func() time.Time,
	log zerolog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:     repo,
		dir:      dir,
		audit:    audit,
		invoices: invoices,
		now:      now,
		log:      log,
	}
}

func (s *Service) List(ctx context.Context) (*Report, error) {
	apps, err := s.repo.ListBillable(ctx)
	if err != nil {
		return nil, err
	}

	snap := s.snapshot(ctx)

	records := make([]Record, 0, len(apps))
	for _, ap := range apps {
		d, _ := snap.Doctor(ap.DoctorID)
		records = append(records, NewRecord(ap, d.Name))
	}

	return &Report{
		Records: records,
		Summary: Summarize(records),
	}, nil
}

// Refund cancels a paid appointment and flags the refund.
func (s *Service) Refund(ctx context.Context, appointmentID, actorID string) (*Record, error) {
	ap, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	if err := domain.Refund(ap, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.ChangeStatus(ctx, ap, from); err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(actorID),
		Action:   "refund_processed",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{"amount": ap.ConsultationFee},
	})

	d, _ := s.snapshot(ctx).Doctor(ap.DoctorID)
	rec := NewRecord(*ap, d.Name)
	return &rec, nil
}

// Invoice renders the PDF for one billing record.
func (s *Service) Invoice(ctx context.Context, appointmentID string) ([]byte, error) {
	ap, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !domain.RequiresPayment(ap.ConsultationFee) {
		return nil, httperr.ErrBusiness("billing_record_not_found")
	}

	d, _ := s.snapshot(ctx).Doctor(ap.DoctorID)
	return s.invoices.Render(NewRecord(*ap, d.Name), d.Specialty)
}

func (s *Service) snapshot(ctx context.Context) directory.Snapshot {
	snap, err := directory.Load(ctx, s.dir)
	if err != nil {
		s.log.Warn().Err(err).Msg("doctor directory unavailable for billing")
	}
	return snap
}
