package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort       string
	DatabaseURL      string
	JWTSecret        string
	SheetSyncURL     string
	SyncIntervalMins string
	LogLevel         string
}

// GetSyncInterval returns the resync interval from environment or the
// 5 minute default.
func (c *Config) GetSyncInterval() time.Duration {
	if c.SyncIntervalMins == "" {
		return 5 * time.Minute
	}

	mins, err := strconv.Atoi(c.SyncIntervalMins)
	if err != nil || mins <= 0 {
		logrus.Warnf("Invalid SYNC_INTERVAL_MINUTES value: %s, using default 5 minutes", c.SyncIntervalMins)
		return 5 * time.Minute
	}

	return time.Duration(mins) * time.Minute
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "3000"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", "super_secret_key_change_me_in_prod"),
		SheetSyncURL:     getEnv("SHEET_SYNC_URL", ""),
		SyncIntervalMins: getEnv("SYNC_INTERVAL_MINUTES", "5"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
