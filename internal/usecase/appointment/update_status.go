package appointment

import (
	"context"

	"github.com/BruksfildServices01/carelink/internal/audit"
	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

type UpdateStatusInput struct {
	AppointmentID string
	Status        string
	ActorID       string
}

type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrValidation("status")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	if err := domain.Transition(ap, to); err != nil {
		return nil, err
	}

	if err := uc.repo.ChangeStatus(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(in.ActorID),
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]string{
			"from": from,
			"to":   ap.Status,
		},
	})

	return ap, nil
}
