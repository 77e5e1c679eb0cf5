package appointment

import "time"

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// BookableDate mirrors the public date picker: no past days, no Sundays.
func BookableDate(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	if day.Before(today) {
		return false
	}
	return day.Weekday() != time.Sunday
}

func BuildSlots(grid []string, taken map[string]bool) []TimeSlot {
	slots := make([]TimeSlot, 0, len(grid))
	for _, t := range grid {
		slots = append(slots, TimeSlot{
			Time:      t,
			Available: !taken[t],
		})
	}
	return slots
}
