package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBDriver string
	DBConn   string
	LogLevel string

	JWTSecret     string
	HMACSecret    string
	EncryptionKey string // hex-encoded AES key for PAN numbers at rest

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	RBIURL string

	ModelPath       string // when set, model state lives in this file instead of the DB
	TrainSamples    int
	TrainSeed       int64
	RetrainSchedule string // cron expression, empty disables scheduled retraining

	ReportsDir string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBConn:          getEnv("DB_CONN", ""),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		HMACSecret:      getEnv("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		EncryptionKey:   getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail:     getEnv("SENDER_EMAIL", "noreply@creditbridge.local"),
		RBIURL:          getEnv("RBI_URL", ""),
		ModelPath:       getEnv("MODEL_PATH", ""),
		RetrainSchedule: getEnv("RETRAIN_SCHEDULE", ""),
		ReportsDir:      getEnv("REPORTS_DIR", "reports"),
	}

	samples, err := strconv.Atoi(getEnv("TRAIN_SAMPLES", "5000"))
	if err != nil || samples < 1 {
		return nil, fmt.Errorf("TRAIN_SAMPLES must be a positive integer")
	}
	cfg.TrainSamples = samples

	seed, err := strconv.ParseInt(getEnv("TRAIN_SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("TRAIN_SEED must be an integer")
	}
	cfg.TrainSeed = seed

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HMACSecret == "" {
		return nil, fmt.Errorf("HMAC_SECRET is required")
	}
	key, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex-encoded: %w", err)
	}
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must decode to 16, 24, or 32 bytes, got %d", len(key))
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
