// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (instructor master data)
	PostgresDSN string

	// Scheduling policy
	BusinessOpen        string // "HH:MM", empty disables the check
	BusinessClose       string
	LockTTL             time.Duration
	ServiceIntervalDays int
	ServiceIntervalKm   int

	// Gmail (lesson reminders)
	GmailClientID        string
	GmailClientSecret    string
	GmailRefreshToken    string
	ReminderPollInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "driveschool"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=driveschool dbname=driveschool port=5432"),

		BusinessOpen:        getEnv("BUSINESS_OPEN", "07:00"),
		BusinessClose:       getEnv("BUSINESS_CLOSE", "21:00"),
		LockTTL:             time.Duration(getEnvAsInt("BOOKING_LOCK_TTL", 30)) * time.Second,
		ServiceIntervalDays: getEnvAsInt("SERVICE_INTERVAL_DAYS", 180),
		ServiceIntervalKm:   getEnvAsInt("SERVICE_INTERVAL_KM", 15000),

		GmailClientID:        getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret:    getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken:    getEnv("GMAIL_REFRESH_TOKEN", ""),
		ReminderPollInterval: time.Duration(getEnvAsInt("REMINDER_POLL_INTERVAL", 300)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
