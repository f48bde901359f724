package introsend

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SendEnabled   bool          `mapstructure:"send_enabled"`
	FromEmail     string        `mapstructure:"from_email"`
	Subject       string        `mapstructure:"subject"`
	SendRate      float64       `mapstructure:"send_rate"` // emails per second
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		Subject:       "Quick introduction",
		SendRate:      1,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.SendRate <= 0 {
		return fmt.Errorf("send_rate must be positive")
	}
	if c.SendEnabled && c.FromEmail == "" {
		return fmt.Errorf("from_email is required when sending is enabled")
	}
	return nil
}
