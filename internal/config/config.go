package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is built once in main and
// handed to the components that need it; nothing reads the environment after
// startup.
type Config struct {
	ServerPort         int
	DatabasePath       string
	JWTSecret          string
	UploadPath         string // Base path for stored cover images
	AllowedOrigin      string // Frontend origin for CORS
	LogLevel           string
	CoverSweepSchedule string // Cron expression for the orphaned-cover sweep
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./librarian.db"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		UploadPath:         getEnv("UPLOAD_PATH", "./uploads"),
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CoverSweepSchedule: getEnv("COVER_SWEEP_SCHEDULE", "@daily"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
