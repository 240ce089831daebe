package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	AppPort  string `mapstructure:"APP_PORT"`

	// Telegram configuration.
	BotToken    string `mapstructure:"BOT_TOKEN"`
	OwnerChatID int64  `mapstructure:"OWNER_CHAT_ID"`
	WebhookURL  string `mapstructure:"WEBHOOK_URL"`

	// MongoDB configuration.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB   int    `mapstructure:"REDIS_SESSION_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Google Calendar configuration.
	GoogleCalendarID         string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleServiceAccountJSON string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Work calendar settings.
	CalendarTimezone      string `mapstructure:"CALENDAR_TIMEZONE"`
	WorkStartHour         int    `mapstructure:"WORK_START_HOUR"`
	WorkEndHour           int    `mapstructure:"WORK_END_HOUR"`
	SlotIntervalHours     int    `mapstructure:"SLOT_INTERVAL_HOURS"`
	CleaningDurationHours int    `mapstructure:"CLEANING_DURATION_HOURS"`

	// Date offering window.
	BookingDayTarget  int `mapstructure:"BOOKING_DAY_TARGET"`
	BookingDayHorizon int `mapstructure:"BOOKING_DAY_HORIZON"`

	// Conversation lifecycle.
	SessionTTLMinutes int `mapstructure:"SESSION_TTL_MINUTES"`
	ReminderLeadHours int `mapstructure:"REMINDER_LEAD_HOURS"`
	CalendarTimeoutS  int `mapstructure:"CALENDAR_TIMEOUT_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 1)
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("CALENDAR_TIMEZONE", "Europe/Stockholm")
	viper.SetDefault("WORK_START_HOUR", 8)
	viper.SetDefault("WORK_END_HOUR", 18)
	viper.SetDefault("SLOT_INTERVAL_HOURS", 2)
	viper.SetDefault("CLEANING_DURATION_HOURS", 2)
	viper.SetDefault("BOOKING_DAY_TARGET", 5)
	viper.SetDefault("BOOKING_DAY_HORIZON", 14)
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("REMINDER_LEAD_HOURS", 24)
	viper.SetDefault("CALENDAR_TIMEOUT_SECONDS", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if AppConfig.BotToken == "" {
		log.Fatal("BOT_TOKEN is not set")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SessionTTL returns the eviction deadline for abandoned conversations.
func SessionTTL() time.Duration {
	return time.Duration(AppConfig.SessionTTLMinutes) * time.Minute
}

// CalendarTimeout bounds every call to the external calendar.
func CalendarTimeout() time.Duration {
	return time.Duration(AppConfig.CalendarTimeoutS) * time.Second
}

// Location resolves the configured timezone, falling back to UTC.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.CalendarTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
