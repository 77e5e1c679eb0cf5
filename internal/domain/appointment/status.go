package appointment

import "github.com/BruksfildServices01/carelink/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// ===============================
// Validations
// ===============================

// CanTransition allows pending -> confirmed -> completed and
// pending|confirmed -> cancelled. Completed and cancelled are terminal.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_state")
}

func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

// InitialStatus is pending for free consultations and confirmed once a
// payment method has been chosen for a paid one.
func InitialStatus(paid bool) Status {
	if paid {
		return StatusConfirmed
	}
	return StatusPending
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}
