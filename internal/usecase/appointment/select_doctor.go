package appointment

import (
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

// SelectDoctor resolves doctorID against an explicit directory snapshot.
func SelectDoctor(snap directory.Snapshot, doctorID string) (models.Doctor, error) {
	d, ok := snap.Doctor(doctorID)
	if !ok {
		return models.Doctor{}, httperr.ErrValidation("doctor_id")
	}
	return d, nil
}
