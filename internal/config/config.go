package config

import (
	"os"
	"time"
)

const (
	// Severity -> priority thresholds (vision severity is 0..10).
	HighSeverityThreshold   = 7
	MediumSeverityThreshold = 4

	// Geolocation
	GeolocationTimeout = 5 * time.Second

	// External calls
	ExtractionTimeout = 20 * time.Second
	UploadTimeout     = 30 * time.Second

	// Realtime
	EventChannel = "civicpulse:events"
)

// Settings holds the env-driven wiring knobs. Domain behavior lives in
// the constants above, not in the environment.
type Settings struct {
	Port            string
	PostgresDSN     string
	RedisAddr       string
	RedisPassword   string
	JWTSecret       string
	CloudinaryURL   string
	ExtractionURL   string
	ExtractionKey   string
	NotifyWebhook   string
	TelegramToken   string
	LocalizationDir string
}

// Load reads the settings from the environment, applying the defaults
// used by docker-compose for local runs.
func Load() Settings {
	return Settings{
		Port:            getEnv("PORT", "8080"),
		PostgresDSN:     getEnv("POSTGRES_DSN", "host=localhost user=user password=password dbname=civicpulse port=5432 sslmode=disable"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-only-secret"),
		CloudinaryURL:   os.Getenv("CLOUDINARY_URL"),
		ExtractionURL:   os.Getenv("EXTRACTION_URL"),
		ExtractionKey:   os.Getenv("EXTRACTION_API_KEY"),
		NotifyWebhook:   os.Getenv("NOTIFY_WEBHOOK_URL"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		LocalizationDir: getEnv("LOCALIZATION_DIR", "locales"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
