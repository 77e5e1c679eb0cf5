package appointment

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

// AppointmentView is an appointment with its doctor's display fields.
type AppointmentView struct {
	models.Appointment
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty"`
}

// ======================================================
// PATIENT PORTAL
// ======================================================

type ListByEmail struct {
	repo domain.Repository
	dir  directory.Directory
	log  zerolog.Logger
}

func NewListByEmail(
	repo domain.Repository,
	dir directory.Directory,
	log zerolog.Logger,
) *ListByEmail {
	return &ListByEmail{repo: repo, dir: dir, log: log}
}

// Execute matches email case-insensitively, newest first.
func (uc *ListByEmail) Execute(
	ctx context.Context,
	email string,
) ([]AppointmentView, error) {

	if strings.TrimSpace(email) == "" {
		return nil, httperr.ErrValidation("email")
	}

	apps, err := uc.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return enrich(ctx, uc.dir, uc.log, apps), nil
}

// ======================================================
// ADMIN LIST
// ======================================================

type ListAppointments struct {
	repo domain.Repository
	dir  directory.Directory
	log  zerolog.Logger
}

func NewListAppointments(
	repo domain.Repository,
	dir directory.Directory,
	log zerolog.Logger,
) *ListAppointments {
	return &ListAppointments{repo: repo, dir: dir, log: log}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	f domain.ListFilter,
) ([]AppointmentView, error) {

	if f.Status != "" {
		if _, ok := domain.ParseStatus(f.Status); !ok {
			return nil, httperr.ErrValidation("status")
		}
	}

	apps, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	return enrich(ctx, uc.dir, uc.log, apps), nil
}

// enrich degrades to bare appointments when the directory is unavailable.
func enrich(
	ctx context.Context,
	dir directory.Directory,
	log zerolog.Logger,
	apps []models.Appointment,
) []AppointmentView {

	snap, err := directory.Load(ctx, dir)
	if err != nil {
		log.Warn().Err(err).Msg("doctor directory unavailable, listing without names")
	}

	out := make([]AppointmentView, 0, len(apps))
	for _, ap := range apps {
		v := AppointmentView{Appointment: ap}
		if d, ok := snap.Doctor(ap.DoctorID); ok {
			v.DoctorName = d.Name
			v.DoctorSpecialty = d.Specialty
		}
		out = append(out, v)
	}
	return out
}
