package cron

import (
	"context"
	"encoding/json"
	"time"

	"oselya/config"
	"oselya/models"
	"oselya/services/notification"
	"oselya/services/tasks"
	"oselya/utils"

	reservationRepo "oselya/database/repository/reservation"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the async worker in background. It drains the
// booking notification queue: owner alerts fire immediately, reminders at
// their scheduled time.
func InitNotificationWorker(notifSvc notification.NotificationService, resRepo reservationRepo.ReservationRepository) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOwnerNotify, handleOwnerNotifyTask(notifSvc))
	mux.HandleFunc(tasks.TypeReminder, handleReminderTask(notifSvc, resRepo))

	go monitorRedisConnection()

	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("notification worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("notification worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleOwnerNotifyTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.OwnerNotifyPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid owner notification payload", zap.Error(err))
			return err
		}

		if err := notifSvc.NotifyOwner(p.Text); err != nil {
			logger.Error("owner notification delivery failed",
				zap.String("reservationId", p.ReservationID), zap.Error(err))
			return err
		}
		logger.Info("owner notified", zap.String("reservationId", p.ReservationID))
		return nil
	}
}

func handleReminderTask(notifSvc notification.NotificationService, resRepo reservationRepo.ReservationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		res, err := resRepo.GetByID(ctx, p.ReservationID)
		if err != nil {
			logger.Error("reminder skipped, reservation lookup failed",
				zap.String("reservationId", p.ReservationID), zap.Error(err))
			return err
		}

		if err := notifSvc.NotifyClient(res.ChatID, p.Text); err != nil {
			logger.Error("reminder delivery failed",
				zap.String("reservationId", p.ReservationID),
				zap.Int64("chatId", res.ChatID), zap.Error(err))
			return err
		}
		logger.Info("reminder delivered",
			zap.String("reservationId", p.ReservationID), zap.Int64("chatId", res.ChatID))
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("task queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
