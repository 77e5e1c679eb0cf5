// Package payment creates payment intents for paid consultations.
package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/BruksfildServices01/carelink/internal/config"
)

type Intent struct {
	Reference   string
	Amount      float64
	Currency    string
	Method      string
	PatientName string
	Email       string
	Description string
}

type Receipt struct {
	Provider    string
	Reference   string
	CheckoutURL string
}

type Gateway interface {
	Name() string
	CreateIntent(ctx context.Context, in Intent) (Receipt, error)
}

func New(cfg config.PaymentConfig) (Gateway, error) {
	switch cfg.Provider {
	case "", "offline":
		return NewOffline(), nil
	case "razorpay":
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			return nil, fmt.Errorf("razorpay credentials are not configured")
		}
		return NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	case "mercadopago":
		return NewMercadoPago(cfg.MercadoPagoToken, cfg.MercadoPagoNotifyTo)
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// minorUnits converts an amount to the currency's smallest unit (paise, cents).
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
