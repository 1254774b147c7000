package shared

import (
	"time"
)

// UnifiedConfiguration holds tuning parameters for the entire application
type UnifiedConfiguration struct {
	Database DatabaseConfig `json:"database"`
	Sync     SyncConfig     `json:"sync"`
	Logging  LoggingConfig  `json:"logging"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	PingTimeout     time.Duration `json:"ping_timeout"`
}

// SyncConfig holds remote spreadsheet sync configuration
type SyncConfig struct {
	Interval        time.Duration `json:"interval"`
	DownloadTimeout time.Duration `json:"download_timeout"`
	RunTimeout      time.Duration `json:"run_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	ServiceName string `json:"service_name"`
}

// NewDefaultUnifiedConfiguration returns production-ready default configuration
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Sync: SyncConfig{
			Interval:        5 * time.Minute,
			DownloadTimeout: 30 * time.Second,
			RunTimeout:      2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:       "info",
			ServiceName: "internship-backend",
		},
	}
}
