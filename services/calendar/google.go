package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"oselya/config"
	"oselya/models"
	"oselya/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// googleService talks to Google Calendar for freebusy queries and event
// creation on a single calendar.
type googleService struct {
	srv        *gcal.Service
	calendarID string
	timezone   string
	location   *time.Location
}

// NewService builds the calendar collaborator from configuration. Service
// account credentials are taken from GOOGLE_SERVICE_ACCOUNT_JSON first,
// then GOOGLE_SERVICE_ACCOUNT_FILE. With neither present the explicit
// unavailable variant is returned and the bot keeps running with an open
// calendar.
func NewService(ctx context.Context) Service {
	logger := utils.GetLogger()
	cfg := config.AppConfig

	var opts []option.ClientOption
	switch {
	case cfg.GoogleServiceAccountJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleServiceAccountJSON)))
	case cfg.GoogleServiceAccountFile != "":
		if _, err := os.Stat(cfg.GoogleServiceAccountFile); err != nil {
			logger.Warn("service account file not readable, calendar disabled",
				zap.String("file", cfg.GoogleServiceAccountFile), zap.Error(err))
			return NewUnavailableService()
		}
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleServiceAccountFile))
	default:
		logger.Warn("no Google Calendar credentials configured, calendar disabled")
		return NewUnavailableService()
	}
	opts = append(opts, option.WithScopes(gcal.CalendarScope))

	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		logger.Error("failed to build calendar service, calendar disabled", zap.Error(err))
		return NewUnavailableService()
	}

	return &googleService{
		srv:        srv,
		calendarID: cfg.GoogleCalendarID,
		timezone:   cfg.CalendarTimezone,
		location:   config.Location(),
	}
}

func (g *googleService) Available() bool { return true }

// QueryBusyIntervals runs a freebusy query over the whole date and maps the
// reported periods to minutes-from-midnight in the configured timezone.
// Periods spilling over the date's edges are clamped to it.
func (g *googleService) QueryBusyIntervals(ctx context.Context, date time.Time) ([]models.BusyInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, config.CalendarTimeout())
	defer cancel()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, g.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	req := &gcal.FreeBusyRequest{
		TimeMin:  dayStart.Format(time.RFC3339),
		TimeMax:  dayEnd.Format(time.RFC3339),
		TimeZone: g.timezone,
		Items:    []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}

	resp, err := g.srv.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return nil, nil
	}

	var busy []models.BusyInterval
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}

		iv := models.BusyInterval{
			Start: minutesIntoDay(start.In(g.location), dayStart),
			End:   minutesIntoDay(end.In(g.location), dayStart),
		}
		if iv.End <= iv.Start {
			continue
		}
		busy = append(busy, iv)
	}
	return busy, nil
}

// InsertEvent creates the reservation event and returns its id.
func (g *googleService) InsertEvent(ctx context.Context, ev EventInput) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.CalendarTimeout())
	defer cancel()

	event := &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
	}

	created, err := g.srv.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("event insert failed: %w", err)
	}
	return created.Id, nil
}

// minutesIntoDay clamps a timestamp to [0, 1440] minutes of the given day.
func minutesIntoDay(t, dayStart time.Time) int {
	minutes := int(t.Sub(dayStart) / time.Minute)
	if minutes < 0 {
		return 0
	}
	if minutes > 24*60 {
		return 24 * 60
	}
	return minutes
}
