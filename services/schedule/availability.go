package schedule

import (
	"time"

	"oselya/models"
)

const minutesPerDay = 24 * 60

// AvailableSlots computes the ordered, conflict-free slot list for one date.
//
// Weekends yield no slots regardless of the busy set. Candidates start at
// workStartHour and step by slotIntervalHours while strictly before
// workEndHour; generation stops rather than rolling over midnight.
// A candidate occupies the closed-open interval [start, start+interval) and
// is dropped when it intersects any busy interval [busyStart, busyEnd).
// Touching boundaries do not conflict, so a booking may start exactly when
// a prior one ends.
func AvailableSlots(date time.Time, busy []models.BusyInterval, workStartHour, workEndHour, slotIntervalHours int) []models.TimeSlot {
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil
	}

	interval := slotIntervalHours * 60
	candidates := generateCandidates(workStartHour*60, workEndHour*60, interval)

	var slots []models.TimeSlot
	for _, start := range candidates {
		if conflicts(start, start+interval, busy) {
			continue
		}
		slots = append(slots, models.NewTimeSlot(start))
	}
	return slots
}

func generateCandidates(workStart, workEnd, interval int) []int {
	var out []int
	for start := workStart; start < workEnd; start += interval {
		out = append(out, start)
		if start+interval >= minutesPerDay {
			break
		}
	}
	return out
}

func conflicts(start, end int, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if start < b.End && b.Start < end {
			return true
		}
	}
	return false
}
