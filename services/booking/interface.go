package booking

import (
	"context"
	"time"

	"oselya/models"
	"oselya/services/calendar"

	reservationRepo "oselya/database/repository/reservation"
)

// BookingFlowService drives the multi-step booking dialogue for many
// concurrent chats. The surrounding dispatcher guarantees at most one
// in-flight event per chat; the flow itself holds no per-chat locks.
type BookingFlowService interface {
	StartConversation(ctx context.Context, client models.ClientInfo) (models.Reply, error)
	HandleAction(ctx context.Context, client models.ClientInfo, action string) (models.Reply, error)
	HandleText(ctx context.Context, client models.ClientInfo, text string) (models.Reply, error)
	HandleLocation(ctx context.Context, client models.ClientInfo, lat, lon float64) (models.Reply, error)
	ListBookings(ctx context.Context, client models.ClientInfo) (models.Reply, error)
}

// NotificationDispatcher hands finalized-booking notifications off for
// best-effort delivery. A failed dispatch never rolls back a booking.
type NotificationDispatcher interface {
	DispatchOwnerNotification(ctx context.Context, payload models.OwnerNotifyPayload) error
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// FlowConfig carries the work-calendar settings the flow needs.
type FlowConfig struct {
	WorkStartHour         int
	WorkEndHour           int
	SlotIntervalHours     int
	CleaningDurationHours int
	DayTarget             int // available days offered on the date keyboard
	DayHorizon            int // hard search horizon, in days
	ReminderLead          time.Duration
	Location              *time.Location
}

// DefaultBookingFlow implements BookingFlowService.
type DefaultBookingFlow struct {
	Store        ConversationStore
	Calendar     calendar.Service
	Reservations reservationRepo.ReservationRepository
	Dispatcher   NotificationDispatcher
	Config       FlowConfig
	Now          func() time.Time
}
