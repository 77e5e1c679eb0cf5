package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/carelink/internal/config"
)

type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type SMSSender struct {
	from string
	api  messageAPI
}

func NewSMSSender(cfg config.TwilioConfig) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &SMSSender{
		from: cfg.From,
		api:  client.Api,
	}
}

func (s *SMSSender) Channel() string {
	return "sms"
}

func (s *SMSSender) Send(ctx context.Context, n Notification) error {
	if n.Phone == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.Phone)
	params.SetFrom(s.from)
	params.SetBody(n.Subject)

	_, err := s.api.CreateMessage(params)
	return err
}
