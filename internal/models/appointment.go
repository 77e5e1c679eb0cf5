package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientName string `gorm:"size:100;not null" json:"patient_name"`
	Email       string `gorm:"size:100;not null;index" json:"email"`
	Phone       string `gorm:"size:30;not null" json:"phone"`

	DoctorID string `gorm:"size:36;not null;index:idx_appointments_slot" json:"doctor_id"`
	Date     string `gorm:"column:appointment_date;size:10;not null;index:idx_appointments_slot" json:"date"`
	Time     string `gorm:"column:appointment_time;size:5;not null;index:idx_appointments_slot" json:"time"`

	Reason string `gorm:"size:255;not null" json:"reason"`
	Notes  string `gorm:"type:text" json:"notes"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	ConsultationFee  float64 `gorm:"default:0" json:"consultation_fee"`
	PaymentMethod    string  `gorm:"size:30" json:"payment_method"`
	PaymentProvider  string  `gorm:"size:30" json:"payment_provider,omitempty"`
	PaymentReference string  `gorm:"size:100" json:"payment_reference,omitempty"`
	PaymentURL       string  `gorm:"size:500" json:"payment_url,omitempty"`

	RefundProcessed bool       `gorm:"default:false" json:"refund_processed"`
	RefundDate      *time.Time `json:"refund_date,omitempty"`

	ReminderSentAt *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}
