package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/carelink/internal/httperr"
	ucAppointment "github.com/BruksfildServices01/carelink/internal/usecase/appointment"
)

var businessMessages = map[string]string{
	"slot_unavailable":         "This time slot is already booked. Please select a different time.",
	"invalid_state":            "The appointment cannot move to that status.",
	"payment_failed":           "The payment could not be started. Please try again.",
	"doctor_not_found":         "Doctor not found.",
	"appointment_not_found":    "Appointment not found.",
	"billing_record_not_found": "Billing record not found.",
}

// respondError maps use case errors to HTTP. fallback names unexpected failures.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	if ve, ok := httperr.AsValidation(err); ok {
		httperr.Validation(c, ve)
		return
	}

	var pr *ucAppointment.PaymentRequiredError
	if errors.As(err, &pr) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error_code":       "payment_method_required",
			"message":          "Please select a payment method to complete the booking.",
			"consultation_fee": pr.Fee,
			"currency":         pr.Currency,
			"payment_methods":  pr.Methods,
		})
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		msg := businessMessages[be.Code]
		if msg == "" {
			msg = strings.ReplaceAll(be.Code, "_", " ")
		}

		switch {
		case be.Code == "slot_unavailable", be.Code == "invalid_state":
			httperr.Conflict(c, be.Code, msg)
		case be.Code == "payment_failed":
			httperr.Write(c, http.StatusBadGateway, be.Code, msg)
		case strings.HasSuffix(be.Code, "_not_found"):
			httperr.NotFound(c, be.Code, msg)
		default:
			httperr.BadRequest(c, be.Code, msg)
		}
		return
	}

	httperr.Internal(c, fallback, "Something went wrong. Please try again.")
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if ve, ok := bindingFields(err); ok {
			httperr.Validation(c, ve)
			return false
		}
		httperr.BadRequest(c, "invalid_request", "Request body is not valid JSON.")
		return false
	}
	return true
}
