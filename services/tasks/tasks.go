package tasks

import (
	"encoding/json"
	"time"

	"oselya/models"

	"github.com/hibiken/asynq"
)

const (
	TypeOwnerNotify = "booking:owner_notify"
	TypeReminder    = "booking:reminder"
)

// NewOwnerNotifyTask builds the new-booking notification task. Delivery is
// single-attempt: a missed notification must never hold up or replay a
// confirmed booking.
func NewOwnerNotifyTask(payload models.OwnerNotifyPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeOwnerNotify, b)
	opts := []asynq.Option{asynq.MaxRetry(0)}

	return task, opts, nil
}

// NewReminderTask builds the day-before reminder task, scheduled for fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(0)}

	return task, opts, nil
}
