package payment

import (
	"context"

	"github.com/google/uuid"
)

// Offline records the chosen method and settles at the front desk.
type Offline struct{}

func NewOffline() *Offline {
	return &Offline{}
}

func (o *Offline) Name() string {
	return "offline"
}

func (o *Offline) CreateIntent(ctx context.Context, in Intent) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Provider:  o.Name(),
		Reference: "offline_" + uuid.NewString(),
	}, nil
}
