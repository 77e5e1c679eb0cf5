package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/carelink/internal/models"
)

type recordingSender struct {
	mu      sync.Mutex
	channel string
	err     error
	sent    []Notification
}

func (s *recordingSender) Channel() string { return s.channel }

func (s *recordingSender) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeDialer struct {
	msgs []*gomail.Message
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.msgs = append(f.msgs, m...)
	return nil
}

type fakeMessageAPI struct {
	params []*twilioApi.CreateMessageParams
}

func (f *fakeMessageAPI) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	return &twilioApi.ApiV2010Message{}, nil
}

func sampleAppointment() models.Appointment {
	return models.Appointment{
		PatientName:     "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "+15550100",
		Date:            "2024-01-10",
		Time:            "09:00",
		Reason:          "Checkup",
		Status:          "confirmed",
		ConsultationFee: 500,
		PaymentMethod:   "UPI",
	}
}

func TestDispatcherDeliversQueuedNotifications(t *testing.T) {
	email := &recordingSender{channel: "email"}
	sms := &recordingSender{channel: "sms"}
	d := NewDispatcher(zerolog.Nop(), email, sms)

	d.Dispatch(Notification{Kind: KindReminder, Email: "a@example.com"})
	d.Dispatch(Notification{Kind: KindReminder, Email: "b@example.com"})
	d.Close()

	assert.Equal(t, 2, email.count())
	assert.Equal(t, 2, sms.count())
}

func TestDispatchRacingCloseIsSafe(t *testing.T) {
	email := &recordingSender{channel: "email"}
	d := NewDispatcher(zerolog.Nop(), email)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(Notification{Kind: KindReminder, Email: "a@example.com"})
		}()
	}
	d.Close()
	wg.Wait()

	d.Close()
	d.Dispatch(Notification{Kind: KindReminder, Email: "late@example.com"})
	assert.LessOrEqual(t, email.count(), 20)
}

func TestSendReportsFailureOnlyWhenNothingDelivered(t *testing.T) {
	boom := errors.New("smtp down")
	ok := &recordingSender{channel: "sms"}
	failing := &recordingSender{channel: "email", err: boom}

	d := NewDispatcher(zerolog.Nop(), failing, ok)
	defer d.Close()
	assert.NoError(t, d.Send(context.Background(), Notification{}))

	only := NewDispatcher(zerolog.Nop(), failing)
	defer only.Close()
	assert.ErrorIs(t, only.Send(context.Background(), Notification{}), boom)
}

func TestDisabledDispatcherIsNoop(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	assert.False(t, d.Enabled())
	assert.NoError(t, d.Send(context.Background(), Notification{}))
	d.Dispatch(Notification{})
	d.Close()
}

func TestEmailSender(t *testing.T) {
	dialer := &fakeDialer{}
	s := &EmailSender{from: "clinic@example.com", dialer: dialer}

	n := BookingConfirmation("CareLink", sampleAppointment(), models.Doctor{Name: "Dr. Bob", Specialty: "Cardiology"})
	require.NoError(t, s.Send(context.Background(), n))
	require.Len(t, dialer.msgs, 1)

	var buf bytes.Buffer
	_, err := dialer.msgs[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "jane@example.com")
	assert.Contains(t, buf.String(), "Dr. Bob")

	assert.ErrorIs(t, s.Send(context.Background(), Notification{}), ErrNoRecipient)
}

func TestSMSSender(t *testing.T) {
	api := &fakeMessageAPI{}
	s := &SMSSender{from: "+15550000", api: api}

	require.NoError(t, s.Send(context.Background(), Reminder("CareLink", sampleAppointment(), "Dr. Bob")))
	require.Len(t, api.params, 1)
	assert.Equal(t, "+15550100", *api.params[0].To)
	assert.Equal(t, "+15550000", *api.params[0].From)

	assert.ErrorIs(t, s.Send(context.Background(), Notification{}), ErrNoRecipient)
}

func TestBookingConfirmationBody(t *testing.T) {
	ap := sampleAppointment()
	ap.PaymentURL = "https://pay.example.com/x"

	n := BookingConfirmation("CareLink", ap, models.Doctor{Name: "Dr. Bob", Specialty: "Cardiology"})
	assert.Equal(t, KindBookingConfirmation, n.Kind)
	assert.Contains(t, n.Body, "500.00 (UPI)")
	assert.Contains(t, n.Body, ap.PaymentURL)

	free := sampleAppointment()
	free.ConsultationFee = 0
	assert.NotContains(t, BookingConfirmation("CareLink", free, models.Doctor{}).Body, "Consultation fee")
}
