package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/carelink/internal/domain/appointment"
	"github.com/BruksfildServices01/carelink/internal/domain/directory"
	"github.com/BruksfildServices01/carelink/internal/httperr"
)

type GetAvailability struct {
	repo            domain.Repository
	dir             directory.Directory
	grid            []string
	cancelledBlocks bool
	now             func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	dir directory.Directory,
	grid []string,
	cancelledBlocks bool,
	now func() time.Time,
) *GetAvailability {
	if now == nil {
		now = time.Now
	}
	return &GetAvailability{
		repo:            repo,
		dir:             dir,
		grid:            grid,
		cancelledBlocks: cancelledBlocks,
		now:             now,
	}
}

// Execute returns the slot grid for date. Past days and Sundays have no slots.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	doctorID string,
	date string,
) ([]domain.TimeSlot, error) {

	now := uc.now()

	day, err := time.ParseInLocation(domain.DateLayout, date, now.Location())
	if err != nil {
		return nil, httperr.ErrValidation("date")
	}

	if _, err := uc.dir.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	if !domain.BookableDate(day, now) {
		return []domain.TimeSlot{}, nil
	}

	times, err := uc.repo.ListTakenTimes(ctx, doctorID, date, uc.cancelledBlocks)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(times))
	for _, t := range times {
		taken[t] = true
	}

	return domain.BuildSlots(uc.grid, taken), nil
}
