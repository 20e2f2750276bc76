package config

import (
	"fmt"
	"os"

	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultRetentionSeconds = 7 * 24 * 3600
	defaultHistorySize      = 24
)

// Config maps to the config.toml file for the validation service
type Config struct {
	ListenAddress    string                       `toml:"ListenAddress"`
	RetentionSeconds int                          `toml:"RetentionSeconds"`
	HistorySize      int                          `toml:"HistorySize"`
	Thresholds       validator.ThresholdOverrides `toml:"Thresholds"`
}

// LoadConfig parses a TOML file into the Config struct, filling the unset limits with defaults
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults sets the storage limits that were left unset
func (cfg *Config) ApplyDefaults() {
	if cfg.RetentionSeconds <= 0 {
		cfg.RetentionSeconds = defaultRetentionSeconds
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaultHistorySize
	}
}
