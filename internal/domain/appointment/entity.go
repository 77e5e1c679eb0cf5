package appointment

import (
	"time"

	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Transition(ap *models.Appointment, to Status) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}

func Cancel(ap *models.Appointment) error {
	return Transition(ap, StatusCancelled)
}

func Complete(ap *models.Appointment) error {
	return Transition(ap, StatusCompleted)
}

// Refund cancels a paid appointment and records when the refund happened.
func Refund(ap *models.Appointment, now time.Time) error {
	if !RequiresPayment(ap.ConsultationFee) || ap.RefundProcessed {
		return httperr.ErrBusiness("invalid_state")
	}
	if err := Cancel(ap); err != nil {
		return err
	}
	ap.RefundProcessed = true
	ap.RefundDate = &now
	return nil
}

// RequiresPayment is true iff the consultation fee is positive.
func RequiresPayment(fee float64) bool {
	return fee > 0
}
