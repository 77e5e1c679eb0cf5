// Package jobs runs scheduled background work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/infra/notify"
)

type Sender interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Reminders emails patients the day before their appointment, once.
type Reminders struct {
	repo   domain.Repository
	dir    directory.Directory
	sender Sender
	clinic string
	now    func() time.Time
	log    zerolog.Logger
}

func NewReminders(
	repo domain.Repository,
	dir directory.Directory,
	sender Sender,
	clinic string,
	now func() time.Time,
	log zerolog.Logger,
) *Reminders {
	if now == nil {
		now = time.Now
	}
	return &Reminders{
		repo:   repo,
		dir:    dir,
		sender: sender,
		clinic: clinic,
		now:    now,
		log:    log.With().Str("job", "reminders").Logger(),
	}
}

// Run sends reminders for tomorrow's appointments and returns how many went out.
func (j *Reminders) Run(ctx context.Context) (int, error) {
	now := j.now()
	tomorrow := now.AddDate(0, 0, 1).Format(domain.DateLayout)

	apps, err := j.repo.ListForReminder(ctx, tomorrow)
	if err != nil {
		return 0, err
	}
	if len(apps) == 0 {
		return 0, nil
	}

	snap, err := directory.Load(ctx, j.dir)
	if err != nil {
		j.log.Warn().Err(err).Msg("doctor directory unavailable, reminders without doctor names")
	}

	sent := 0
	for i := range apps {
		ap := &apps[i]

		// earlier sends may have taken a while; skip rows cancelled meanwhile
		cur, err := j.repo.GetAppointment(ctx, ap.ID)
		if err != nil {
			j.log.Error().Err(err).Str("appointment_id", ap.ID).Msg("reminder skipped")
			continue
		}
		if !domain.Status(cur.Status).Active() {
			continue
		}

		d, _ := snap.Doctor(ap.DoctorID)

		if err := j.sender.Send(ctx, notify.Reminder(j.clinic, *ap, d.Name)); err != nil {
			j.log.Error().Err(err).Str("appointment_id", ap.ID).Msg("reminder not sent")
			continue
		}

		stamped, err := j.repo.MarkReminderSent(ctx, ap.ID, now)
		if err != nil {
			j.log.Error().Err(err).Str("appointment_id", ap.ID).Msg("reminder sent but not recorded")
			continue
		}
		if !stamped {
			j.log.Warn().Str("appointment_id", ap.ID).Msg("appointment changed while reminding, not stamped")
			continue
		}
		sent++
	}

	j.log.Info().Str("date", tomorrow).Int("sent", sent).Int("due", len(apps)).Msg("reminders run")
	return sent, nil
}

// Schedule registers the job on c under spec.
func (j *Reminders) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.log.Error().Err(err).Msg("reminders run failed")
		}
	})
}
