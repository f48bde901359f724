// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Introductions IntroductionConfig      `mapstructure:"introductions"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// IntroductionConfig tunes the matching-and-composition pipeline and the
// record sources that feed it.
type IntroductionConfig struct {
	// ExpansionEnabled is a pointer so an explicit false survives defaults.
	ExpansionEnabled   *bool    `mapstructure:"expansion_enabled"`
	FundingWindowDays  int      `mapstructure:"funding_window_days"`
	ExtraBannedPhrases []string `mapstructure:"extra_banned_phrases"`
	SupplyIndex        string   `mapstructure:"supply_index"`
	SupplyCacheTTL     int      `mapstructure:"supply_cache_ttl"` // milliseconds
	ProgressInterval   int      `mapstructure:"progress_interval"`

	// Taxonomy replaces the built-in vocabulary when any dictionary is set.
	Taxonomy taxonomy.Definition `mapstructure:"taxonomy"`
}

// Expansion reports whether semantic expansion is on. It defaults to true.
func (c IntroductionConfig) Expansion() bool {
	return c.ExpansionEnabled == nil || *c.ExpansionEnabled
}

// FundingWindow is the recency window for contextual signals.
func (c IntroductionConfig) FundingWindow() time.Duration {
	return time.Duration(c.FundingWindowDays) * 24 * time.Hour
}

// BuildTaxonomy returns the configured taxonomy with extra banned phrases
// applied.
func (c IntroductionConfig) BuildTaxonomy() *taxonomy.Taxonomy {
	tax := taxonomy.Default()
	if len(c.Taxonomy.Needs) > 0 || len(c.Taxonomy.Capabilities) > 0 {
		tax = taxonomy.New(c.Taxonomy)
	}
	return tax.WithBannedPhrases(c.ExtraBannedPhrases...)
}

// NotificationConfig holds settings for the send and summary workers.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Email struct {
		Enabled   bool    `mapstructure:"enabled"`
		FromEmail string  `mapstructure:"from_email"`
		Subject   string  `mapstructure:"subject"`
		SendRate  float64 `mapstructure:"send_rate"` // emails per second
	} `mapstructure:"email"`
	Summary struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"summary"`
}
