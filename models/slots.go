package models

import "fmt"

// TimeSlot is a candidate start time for a service window on some date.
// Start is minutes from midnight (e.g., 480 for 8:00 AM). Slots are
// computed on demand and never persisted.
type TimeSlot struct {
	Start int    `json:"start"`
	Label string `json:"label"` // "08:00"
}

// NewTimeSlot builds a slot with its "HH:MM" label.
func NewTimeSlot(startMinutes int) TimeSlot {
	return TimeSlot{
		Start: startMinutes,
		Label: fmt.Sprintf("%02d:%02d", startMinutes/60, startMinutes%60),
	}
}

// BusyInterval is a reserved time range on one date, sourced from the
// external calendar. Start and End are minutes from midnight; the
// interval is closed-open [Start, End).
type BusyInterval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DayOption pairs a bookable calendar date with its display label.
type DayOption struct {
	Date  string `json:"date"`  // "2006-01-02"
	Label string `json:"label"` // "Пон, 1 лютого 2026"
}
