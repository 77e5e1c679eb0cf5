package payment

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	client          preference.Client
	notificationURL string
}

func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("mercadopago access token is not configured")
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		client:          preference.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

func (m *MercadoPago) Name() string {
	return "mercadopago"
}

func (m *MercadoPago) CreateIntent(ctx context.Context, in Intent) (Receipt, error) {
	req := preference.Request{
		ExternalReference: in.Reference,
		NotificationURL:   m.notificationURL,
		Items: []preference.ItemRequest{
			{
				Title:      in.Description,
				Quantity:   1,
				UnitPrice:  in.Amount,
				CurrencyID: in.Currency,
			},
		},
		Payer: &preference.PayerRequest{
			Name:  in.PatientName,
			Email: in.Email,
		},
	}

	res, err := m.client.Create(ctx, req)
	if err != nil {
		return Receipt{}, fmt.Errorf("mercadopago preference: %w", err)
	}

	return Receipt{
		Provider:    m.Name(),
		Reference:   res.ID,
		CheckoutURL: res.InitPoint,
	}, nil
}
