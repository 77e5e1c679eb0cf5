package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/carelink/internal/config"
)

const sendTimeout = 30 * time.Second

type Dispatcher struct {
	senders []Sender
	log     zerolog.Logger
	queue   chan Notification

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(log zerolog.Logger, senders ...Sender) *Dispatcher {
	d := &Dispatcher{
		senders: senders,
		log:     log.With().Str("component", "notify").Logger(),
		queue:   make(chan Notification, 100),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

// FromConfig enables the senders whose credentials are present.
func FromConfig(cfg *config.Config, log zerolog.Logger) *Dispatcher {
	var senders []Sender
	if cfg.SMTP.Enabled() {
		senders = append(senders, NewEmailSender(cfg.SMTP))
	}
	if cfg.Twilio.Enabled() {
		senders = append(senders, NewSMSSender(cfg.Twilio))
	}
	if len(senders) == 0 {
		log.Info().Msg("notifications disabled: no smtp or twilio configured")
	}
	return NewDispatcher(log, senders...)
}

func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.senders) > 0
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for n := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		_ = d.Send(ctx, n)
		cancel()
	}
}

// Send delivers on every channel and succeeds if at least one accepted it.
func (d *Dispatcher) Send(ctx context.Context, n Notification) error {
	if !d.Enabled() {
		return nil
	}

	var errs []error
	delivered := 0
	for _, s := range d.senders {
		err := s.Send(ctx, n)
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrNoRecipient):
		default:
			errs = append(errs, err)
			d.log.Error().Err(err).
				Str("channel", s.Channel()).
				Str("kind", n.Kind).
				Msg("notification failed")
		}
	}

	if delivered == 0 && len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Dispatch queues n without blocking; a full queue drops it.
func (d *Dispatcher) Dispatch(n Notification) {
	if !d.Enabled() {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("kind", n.Kind).Msg("notify dispatcher closed, dropping notification")
		return
	}

	select {
	case d.queue <- n:
	default:
		d.log.Warn().Str("kind", n.Kind).Msg("notify queue full, dropping notification")
	}
}

func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
