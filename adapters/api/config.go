package api

import (
	"fmt"
	"time"
)

// SourceConfig holds settings for reading passenger data over HTTP
type SourceConfig struct {
	Timeout   time.Duration     `json:"timeout"`
	DataPath  string            `json:"data_path"` // gjson path to the record array in JSON responses
	Headers   map[string]string `json:"headers,omitempty"`
	AuthToken string            `json:"auth_token,omitempty"` // sent as a bearer token
	MaxBytes  int64             `json:"max_bytes"`
}

// DefaultSourceConfig returns sensible defaults for HTTP sources
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Timeout:  30 * time.Second,
		MaxBytes: 64 << 20,
	}
}

// Validate checks if the configuration is valid
func (c SourceConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("max bytes must be positive")
	}
	return nil
}
