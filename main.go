package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oselya/config"
	"oselya/cron"
	"oselya/database"
	"oselya/handlers"
	"oselya/routes"
	"oselya/services/booking"
	"oselya/services/calendar"
	"oselya/services/notification"
	"oselya/services/tasks"
	"oselya/utils"

	reservationRepo "oselya/database/repository/reservation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	bot, err := tgbotapi.NewBotAPI(config.AppConfig.BotToken)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize telegram bot: %v", err)
	}

	calendarSvc := calendar.NewService(context.Background())

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer asynqClient.Close()

	// repositories.
	resRepo := reservationRepo.NewMongoReservationRepo()

	// services.
	store := booking.NewRedisConversationStore(utils.GetSessionCacheClient(), config.SessionTTL())

	flow := &booking.DefaultBookingFlow{
		Store:        store,
		Calendar:     calendarSvc,
		Reservations: resRepo,
		Dispatcher:   tasks.NewAsynqDispatcher(asynqClient),
		Config: booking.FlowConfig{
			WorkStartHour:         config.AppConfig.WorkStartHour,
			WorkEndHour:           config.AppConfig.WorkEndHour,
			SlotIntervalHours:     config.AppConfig.SlotIntervalHours,
			CleaningDurationHours: config.AppConfig.CleaningDurationHours,
			DayTarget:             config.AppConfig.BookingDayTarget,
			DayHorizon:            config.AppConfig.BookingDayHorizon,
			ReminderLead:          time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
			Location:              config.Location(),
		},
		Now: time.Now,
	}

	tgHandler := handlers.NewTelegramHandler(bot, flow)

	notifSvc := notification.NewNotificationService(tgHandler, config.AppConfig.OwnerChatID)
	cron.InitNotificationWorker(notifSvc, resRepo)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, tgHandler, handlers.NewAdminHandler(resRepo))

	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()

	if config.AppConfig.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(config.AppConfig.WebhookURL + "/telegram/webhook")
		if err != nil {
			logger.Sugar().Fatalf("main: invalid webhook URL: %v", err)
		}
		if _, err := bot.Request(wh); err != nil {
			logger.Sugar().Fatalf("main: failed to register webhook: %v", err)
		}
		logger.Sugar().Infof("main: webhook registered at %s", config.AppConfig.WebhookURL)
	} else {
		// No public URL configured, fall back to long polling.
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			logger.Sugar().Warnf("main: failed to clear stale webhook: %v", err)
		}
		go tgHandler.RunPolling(pollCtx)
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopPolling()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
