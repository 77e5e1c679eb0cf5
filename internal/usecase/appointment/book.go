package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/carelink/internal/audit"
	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/infra/notify"
	"github.com/BruksfildServices01/carelink/internal/infra/payment"
	"github.com/BruksfildServices01/carelink/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookAppointmentInput struct {
	Request       domain.BookingRequest
	PaymentMethod string
}

type Quote struct {
	DoctorID        string   `json:"doctor_id"`
	DoctorName      string   `json:"doctor_name"`
	Specialty       string   `json:"specialty"`
	RequiresPayment bool     `json:"requires_payment"`
	ConsultationFee float64  `json:"consultation_fee"`
	Currency        string   `json:"currency"`
	PaymentMethods  []string `json:"payment_methods"`
}

type Notifier interface {
	Dispatch(n notify.Notification)
}

type BookingOptions struct {
	// CancelledBlocksSlot keeps cancelled appointments occupying their slot.
	CancelledBlocksSlot bool
	Currency            string
	ClinicName          string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo      domain.Repository
	dir       directory.Directory
	validator *domain.RequestValidator
	gateway   payment.Gateway
	audit     *audit.Dispatcher
	notifier  Notifier
	opts      BookingOptions
	log       zerolog.Logger
}

func NewBookAppointment(
	repo domain.Repository,
	dir directory.Directory,
	validator *domain.RequestValidator,
	gateway payment.Gateway,
	audit *audit.Dispatcher,
	notifier Notifier,
	opts BookingOptions,
	log zerolog.Logger,
) *BookAppointment {
	return &BookAppointment{
		repo:      repo,
		dir:       dir,
		validator: validator,
		gateway:   gateway,
		audit:     audit,
		notifier:  notifier,
		opts:      opts,
		log:       log.With().Str("usecase", "book_appointment").Logger(),
	}
}

// CheckSlotAvailable reports whether no appointment occupies the slot.
func (uc *BookAppointment) CheckSlotAvailable(
	ctx context.Context,
	doctorID, date, tm string,
) (bool, error) {

	taken, err := uc.repo.SlotTaken(ctx, domain.SlotQuery{
		DoctorID:         doctorID,
		Date:             date,
		Time:             tm,
		IncludeCancelled: uc.opts.CancelledBlocksSlot,
	})
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// ======================================================
// QUOTE
// ======================================================

// Quote runs every pre-submission check and reports whether the patient has
// to pick a payment method. It never writes.
func (uc *BookAppointment) Quote(
	ctx context.Context,
	req domain.BookingRequest,
) (*Quote, error) {

	doctor, err := uc.precheck(ctx, req)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		Specialty:       doctor.Specialty,
		RequiresPayment: domain.RequiresPayment(doctor.ConsultationFee),
		ConsultationFee: doctor.ConsultationFee,
		Currency:        uc.opts.Currency,
		PaymentMethods:  []string{},
	}
	if q.RequiresPayment {
		q.PaymentMethods = domain.PaymentMethods
	}
	return q, nil
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	req := in.Request

	// --------------------------------------------------
	// 1. Validation, doctor, pre-check
	// --------------------------------------------------
	if err := uc.validator.Validate(req); err != nil {
		return nil, err
	}

	snap, err := directory.Load(ctx, uc.dir)
	if err != nil {
		return nil, err
	}

	doctor, err := SelectDoctor(snap, req.DoctorID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Payment gate
	// --------------------------------------------------
	paid := domain.RequiresPayment(doctor.ConsultationFee)

	if in.PaymentMethod != "" && !domain.IsPaymentMethod(in.PaymentMethod) {
		return nil, httperr.ErrValidation("payment_method")
	}
	if paid && in.PaymentMethod == "" {
		return nil, &PaymentRequiredError{
			Fee:      doctor.ConsultationFee,
			Currency: uc.opts.Currency,
			Methods:  domain.PaymentMethods,
		}
	}

	// --------------------------------------------------
	// 3. Slot pre-check
	// --------------------------------------------------
	if err := uc.ensureSlotFree(ctx, req); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ID:          uuid.NewString(),
		PatientName: req.PatientName,
		Email:       req.Email,
		Phone:       req.Phone,
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		Time:        req.Time,
		Reason:      req.Reason,
		Notes:       req.Notes,
		Status:      string(domain.InitialStatus(paid)),

		ConsultationFee: doctor.ConsultationFee,
		PaymentMethod:   in.PaymentMethod,
	}

	// --------------------------------------------------
	// 4. Payment intent
	// --------------------------------------------------
	if paid {
		receipt, err := uc.gateway.CreateIntent(ctx, payment.Intent{
			Reference:   ap.ID,
			Amount:      doctor.ConsultationFee,
			Currency:    uc.opts.Currency,
			Method:      in.PaymentMethod,
			PatientName: req.PatientName,
			Email:       req.Email,
			Description: "Consultation with " + doctor.Name,
		})
		if err != nil {
			uc.log.Error().Err(err).
				Str("gateway", uc.gateway.Name()).
				Str("doctor_id", doctor.ID).
				Msg("payment intent failed")
			return nil, httperr.ErrBusiness("payment_failed")
		}

		ap.PaymentProvider = receipt.Provider
		ap.PaymentReference = receipt.Reference
		ap.PaymentURL = receipt.CheckoutURL
	}

	// --------------------------------------------------
	// 5. Atomic check + insert
	// --------------------------------------------------
	if err := uc.repo.CreateIfSlotFree(ctx, ap, uc.opts.CancelledBlocksSlot); err != nil {
		if httperr.IsBusiness(err, "slot_unavailable") {
			uc.auditConflict(req)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 6. Audit + confirmation
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"doctor_id": ap.DoctorID,
			"date":      ap.Date,
			"time":      ap.Time,
			"status":    ap.Status,
			"fee":       ap.ConsultationFee,
		},
	})

	if uc.notifier != nil {
		uc.notifier.Dispatch(notify.BookingConfirmation(uc.opts.ClinicName, *ap, doctor))
	}

	uc.log.Info().
		Str("appointment_id", ap.ID).
		Str("doctor_id", ap.DoctorID).
		Str("date", ap.Date).
		Str("time", ap.Time).
		Str("status", ap.Status).
		Msg("appointment booked")

	return ap, nil
}

// ======================================================
// HELPERS
// ======================================================

func (uc *BookAppointment) precheck(
	ctx context.Context,
	req domain.BookingRequest,
) (models.Doctor, error) {

	if err := uc.validator.Validate(req); err != nil {
		return models.Doctor{}, err
	}

	snap, err := directory.Load(ctx, uc.dir)
	if err != nil {
		return models.Doctor{}, err
	}

	doctor, err := SelectDoctor(snap, req.DoctorID)
	if err != nil {
		return models.Doctor{}, err
	}

	if err := uc.ensureSlotFree(ctx, req); err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (uc *BookAppointment) ensureSlotFree(ctx context.Context, req domain.BookingRequest) error {
	free, err := uc.CheckSlotAvailable(ctx, req.DoctorID, req.Date, req.Time)
	if err != nil {
		return err
	}
	if !free {
		uc.auditConflict(req)
		return httperr.ErrBusiness("slot_unavailable")
	}
	return nil
}

func (uc *BookAppointment) auditConflict(req domain.BookingRequest) {
	uc.audit.Dispatch(audit.Event{
		Action: "slot_conflict",
		Entity: "appointment",
		Metadata: map[string]string{
			"doctor_id": req.DoctorID,
			"date":      req.Date,
			"time":      req.Time,
		},
	})
}
