package appointment

import "fmt"

// PaymentRequiredError is returned when a paid consultation is booked without
// choosing a payment method. Nothing has been written.
type PaymentRequiredError struct {
	Fee      float64
	Currency string
	Methods  []string
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("payment_method_required: fee %.2f %s", e.Fee, e.Currency)
}
