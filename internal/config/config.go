package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"paxboard/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Server   ServerConfig
	Database DatabaseConfig
	LogLevel string
}

// DataConfig holds the dataset source and derived-view defaults
type DataConfig struct {
	Source          string
	JSONDataPath    string
	Watch           bool
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
	PreviewRows     int
	HistogramBins   int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional snapshot archive connection. An empty
// URL disables the archive.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database URL was configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	data, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}

	config := &Config{
		Data:     *data,
		Server:   *loadServerConfig(),
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() (*DataConfig, error) {
	refresh, err := getEnvDuration("REFRESH_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &DataConfig{
		Source:          getEnvOrDefault("DATA_SOURCE", "titanic.csv"),
		JSONDataPath:    getEnvOrDefault("JSON_DATA_PATH", ""),
		Watch:           getEnvBoolOrDefault("WATCH_SOURCE", true),
		RefreshInterval: refresh,
		HTTPTimeout:     timeout,
		PreviewRows:     getEnvIntOrDefault("PREVIEW_ROWS", 5),
		HistogramBins:   getEnvIntOrDefault("HISTOGRAM_BINS", 20),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Data.Source) == "" {
		return errors.ConfigInvalid("DATA_SOURCE is required")
	}
	if config.Data.PreviewRows < 1 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be at least 1")
	}
	if config.Data.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be at least 1")
	}
	if config.Data.RefreshInterval < 0 {
		return errors.ConfigInvalid("REFRESH_INTERVAL cannot be negative")
	}
	if config.Data.HTTPTimeout <= 0 {
		return errors.ConfigInvalid("HTTP_TIMEOUT must be positive")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") and bare seconds ("90").
// A malformed value is a config error rather than a silent default.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " is not a valid duration")
	}
	return duration, nil
}
