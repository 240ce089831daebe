package tasks

import (
	"context"
	"time"

	"oselya/models"
	"oselya/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher queues booking notifications on the task broker. It
// satisfies the booking flow's dispatcher contract.
type AsynqDispatcher struct {
	Client *asynq.Client
}

// NewAsynqDispatcher returns a dispatcher over an existing asynq client.
func NewAsynqDispatcher(client *asynq.Client) *AsynqDispatcher {
	return &AsynqDispatcher{Client: client}
}

// DispatchOwnerNotification enqueues the new-booking message for immediate
// processing.
func (d *AsynqDispatcher) DispatchOwnerNotification(ctx context.Context, payload models.OwnerNotifyPayload) error {
	task, opts, err := NewOwnerNotifyTask(payload)
	if err != nil {
		return err
	}
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}
	utils.GetLogger().Debug("owner notification enqueued",
		zap.String("taskId", info.ID), zap.String("reservationId", payload.ReservationID))
	return nil
}

// ScheduleReminder enqueues the reminder for processing at fireAt.
func (d *AsynqDispatcher) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}
	utils.GetLogger().Debug("reminder enqueued",
		zap.String("taskId", info.ID),
		zap.String("reservationId", payload.ReservationID),
		zap.Time("fireAt", fireAt))
	return nil
}
