// Package notify delivers patient notifications over email and SMS.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/carelink/internal/models"
)

var ErrNoRecipient = errors.New("notify: no recipient for channel")

type Notification struct {
	Kind    string
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

type Sender interface {
	Channel() string
	Send(ctx context.Context, n Notification) error
}

const (
	KindBookingConfirmation = "booking_confirmation"
	KindReminder            = "reminder"
)

func BookingConfirmation(clinic string, ap models.Appointment, doctor models.Doctor) Notification {
	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment with %s (%s) on %s at %s is %s.\nReason: %s\n",
		ap.PatientName, doctor.Name, doctor.Specialty, ap.Date, ap.Time, ap.Status, ap.Reason,
	)
	if ap.ConsultationFee > 0 {
		body += fmt.Sprintf("Consultation fee: %.2f (%s)\n", ap.ConsultationFee, ap.PaymentMethod)
	}
	if ap.PaymentURL != "" {
		body += "Complete your payment at " + ap.PaymentURL + "\n"
	}
	body += "\n" + clinic

	return Notification{
		Kind:    KindBookingConfirmation,
		Name:    ap.PatientName,
		Email:   ap.Email,
		Phone:   ap.Phone,
		Subject: fmt.Sprintf("%s: appointment on %s at %s", clinic, ap.Date, ap.Time),
		Body:    body,
	}
}

func Reminder(clinic string, ap models.Appointment, doctorName string) Notification {
	with := ""
	if doctorName != "" {
		with = " with " + doctorName
	}

	return Notification{
		Kind:    KindReminder,
		Name:    ap.PatientName,
		Email:   ap.Email,
		Phone:   ap.Phone,
		Subject: fmt.Sprintf("Reminder: your appointment tomorrow at %s", ap.Time),
		Body: fmt.Sprintf(
			"Dear %s,\n\nThis is a reminder of your appointment%s on %s at %s.\nIf you cannot attend, please contact us.\n\n%s",
			ap.PatientName, with, ap.Date, ap.Time, clinic,
		),
	}
}
