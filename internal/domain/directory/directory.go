// Package directory exposes the read path for doctor metadata used by the
// booking flow.
package directory

import (
	"context"

	"github.com/BruksfildServices01/carelink/internal/models"
)

type Directory interface {
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
}

// Invalidator is implemented by cached directories.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Snapshot is an immutable by-id view of one doctor listing.
type Snapshot struct {
	byID  map[string]models.Doctor
	order []string
}

func NewSnapshot(doctors []models.Doctor) Snapshot {
	s := Snapshot{
		byID:  make(map[string]models.Doctor, len(doctors)),
		order: make([]string, 0, len(doctors)),
	}
	for _, d := range doctors {
		if _, dup := s.byID[d.ID]; !dup {
			s.order = append(s.order, d.ID)
		}
		s.byID[d.ID] = d
	}
	return s
}

// Load builds a snapshot from the directory's current listing.
func Load(ctx context.Context, dir Directory) (Snapshot, error) {
	doctors, err := dir.ListDoctors(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(doctors), nil
}

func (s Snapshot) Doctor(id string) (models.Doctor, bool) {
	d, ok := s.byID[id]
	return d, ok
}

func (s Snapshot) Doctors() []models.Doctor {
	out := make([]models.Doctor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s Snapshot) Len() int {
	return len(s.byID)
}
