package appointment

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/carelink/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	PaymentPhonePe    = "PhonePe"
	PaymentUPI        = "UPI"
	PaymentNetBanking = "Net Banking"
)

var PaymentMethods = []string{PaymentPhonePe, PaymentUPI, PaymentNetBanking}

func IsPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// BookingRequest is what a patient submits; it has no identity until stored.
type BookingRequest struct {
	PatientName string `json:"patient_name" validate:"notblank"`
	Email       string `json:"email" validate:"notblank,email"`
	Phone       string `json:"phone" validate:"notblank"`
	DoctorID    string `json:"doctor_id" validate:"notblank"`
	Date        string `json:"date" validate:"notblank,datetime=2006-01-02"`
	Time        string `json:"time" validate:"notblank,slot"`
	Reason      string `json:"reason" validate:"notblank"`
	Notes       string `json:"notes"`
}

type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator(timeSlots []string) *RequestValidator {
	grid := make(map[string]struct{}, len(timeSlots))
	for _, s := range timeSlots {
		grid[s] = struct{}{}
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "slot", func(fl validator.FieldLevel) bool {
		_, ok := grid[fl.Field().String()]
		return ok
	})

	return &RequestValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// Validate returns httperr.ValidationError naming every offending field.
func (rv *RequestValidator) Validate(req BookingRequest) error {
	err := rv.v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return httperr.ErrValidation(fields...)
}
