package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oselya/models"
	"oselya/utils"

	"go.uber.org/zap"
)

// ErrNoAvailableDays is returned when the search horizon is exhausted
// without a single day that has open slots. Callers must surface it as a
// distinct outcome, not as an empty keyboard.
var ErrNoAvailableDays = errors.New("no available days within the search horizon")

// Ukrainian day names (abbreviated).
var dayNames = map[time.Weekday]string{
	time.Monday:    "Пон",
	time.Tuesday:   "Вів",
	time.Wednesday: "Сер",
	time.Thursday:  "Чет",
	time.Friday:    "П'ят",
	time.Saturday:  "Суб",
	time.Sunday:    "Нед",
}

// Ukrainian month names in genitive case.
var monthNames = map[time.Month]string{
	time.January:   "січня",
	time.February:  "лютого",
	time.March:     "березня",
	time.April:     "квітня",
	time.May:       "травня",
	time.June:      "червня",
	time.July:      "липня",
	time.August:    "серпня",
	time.September: "вересня",
	time.October:   "жовтня",
	time.November:  "листопада",
	time.December:  "грудня",
}

// FormatDateUA renders a date as "Пон, 1 лютого 2026".
func FormatDateUA(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", dayNames[t.Weekday()], t.Day(), monthNames[t.Month()], t.Year())
}

// NextWorkingDays walks forward day by day from the day after `from`,
// skipping Saturdays and Sundays, until count working days are collected.
func NextWorkingDays(count int, from time.Time) []models.DayOption {
	days := make([]models.DayOption, 0, count)
	current := from.AddDate(0, 0, 1)

	for len(days) < count {
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, models.DayOption{
				Date:  current.Format("2006-01-02"),
				Label: FormatDateUA(current),
			})
		}
		current = current.AddDate(0, 0, 1)
	}
	return days
}

// BusyFunc supplies the busy-interval set for one date. When the external
// calendar is unreachable it reports an empty set: unknown availability
// degrades to "assume fully open".
type BusyFunc func(ctx context.Context, date time.Time) ([]models.BusyInterval, error)

// AvailableDays collects up to target working days that still have at least
// one open slot, scanning at most horizonDays ahead of `from`. A horizon
// exhausted with zero open days yields ErrNoAvailableDays.
func AvailableDays(
	ctx context.Context,
	target, horizonDays int,
	from time.Time,
	busyFn BusyFunc,
	workStartHour, workEndHour, slotIntervalHours int,
) ([]models.DayOption, error) {
	logger := utils.GetLogger()
	var days []models.DayOption

	for offset := 1; offset <= horizonDays && len(days) < target; offset++ {
		day := from.AddDate(0, 0, offset)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		busy, err := busyFn(ctx, day)
		if err != nil {
			logger.Warn("availability query failed, assuming open day",
				zap.String("date", day.Format("2006-01-02")), zap.Error(err))
			busy = nil
		}

		slots := AvailableSlots(day, busy, workStartHour, workEndHour, slotIntervalHours)
		if len(slots) == 0 {
			continue
		}
		days = append(days, models.DayOption{
			Date:  day.Format("2006-01-02"),
			Label: FormatDateUA(day),
		})
	}

	if len(days) == 0 {
		return nil, ErrNoAvailableDays
	}
	return days, nil
}
