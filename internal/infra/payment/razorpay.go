package payment

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

type Razorpay struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

func (r *Razorpay) Name() string {
	return "razorpay"
}

func (r *Razorpay) CreateIntent(ctx context.Context, in Intent) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	data := map[string]interface{}{
		"amount":   minorUnits(in.Amount),
		"currency": in.Currency,
		"receipt":  in.Reference,
		"notes": map[string]interface{}{
			"patient":        in.PatientName,
			"email":          in.Email,
			"payment_method": in.Method,
		},
	}

	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return Receipt{}, fmt.Errorf("razorpay order: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return Receipt{}, fmt.Errorf("razorpay order: missing id in response")
	}

	return Receipt{
		Provider:  r.Name(),
		Reference: id,
	}, nil
}
