package calendar

import (
	"context"
	"errors"
	"time"

	"oselya/models"
)

// ErrUnavailable is returned by write operations when no calendar backend
// is configured.
var ErrUnavailable = errors.New("calendar backend unavailable")

// EventInput describes a reservation to be written to the work calendar.
type EventInput struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Service is the external calendar collaborator. Implementations must be
// safe for concurrent use.
//
// QueryBusyIntervals returns the reserved ranges for one date in the
// configured timezone. The unavailable variant reports an empty set:
// unknown availability degrades to "assume fully open" rather than
// crashing the flow.
type Service interface {
	Available() bool
	QueryBusyIntervals(ctx context.Context, date time.Time) ([]models.BusyInterval, error)
	InsertEvent(ctx context.Context, ev EventInput) (string, error)
}

// unavailableService is the explicit no-backend variant.
type unavailableService struct{}

// NewUnavailableService returns a Service for running without calendar
// credentials. Reads see a fully open calendar; writes fail with
// ErrUnavailable and are logged by the caller.
func NewUnavailableService() Service {
	return unavailableService{}
}

func (unavailableService) Available() bool { return false }

func (unavailableService) QueryBusyIntervals(context.Context, time.Time) ([]models.BusyInterval, error) {
	return nil, nil
}

func (unavailableService) InsertEvent(context.Context, EventInput) (string, error) {
	return "", ErrUnavailable
}
