// Package config loads teamlens configuration from a YAML file with
// environment variable overrides. Secrets (API keys) are environment-only
// so config files stay safe to commit.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	// DBPath is the SQLite database path.
	DBPath string `mapstructure:"db_path"`

	Linear       LinearConfig       `mapstructure:"linear"`
	Capture      CaptureConfig      `mapstructure:"capture"`
	Productivity ProductivityConfig `mapstructure:"productivity"`
	Server       ServerConfig       `mapstructure:"server"`
	AI           AIConfig           `mapstructure:"ai"`

	// DomainsPath points to the domain→teams mapping file.
	DomainsPath string `mapstructure:"domains_path"`
}

// LinearConfig configures the tracker sync client.
type LinearConfig struct {
	// APIKey comes from TEAMLENS_LINEAR_API_KEY or LINEAR_API_KEY.
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	PageSize int    `mapstructure:"page_size"`

	// TeamKeys restricts sync to specific teams; empty syncs everything.
	TeamKeys []string `mapstructure:"team_keys"`
}

// CaptureConfig calibrates snapshot capture.
type CaptureConfig struct {
	// EngineerTeams is the explicit engineer→teams mapping, authoritative
	// for scope membership when present.
	EngineerTeams map[string][]string `mapstructure:"engineer_teams"`

	// ThroughputTarget is the per-engineer target per 14-day period.
	ThroughputTarget float64 `mapstructure:"throughput_target"`

	// ProductivityTeamNames maps scope IDs to the external team names their
	// throughput records carry.
	ProductivityTeamNames map[string][]string `mapstructure:"productivity_team_names"`
}

// ProductivityConfig configures the external throughput source.
type ProductivityConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// ServerConfig configures the HTTP API and scheduled captures.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	// CronSpec schedules sync+capture runs; empty disables the scheduler.
	CronSpec string `mapstructure:"cron_spec"`
}

// AIConfig configures the digest generator.
type AIConfig struct {
	// APIKey comes from TEAMLENS_AI_API_KEY or ANTHROPIC_API_KEY.
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Load reads configuration from path (optional; empty means defaults plus
// environment only). Environment variables use the TEAMLENS_ prefix with
// underscores, e.g. TEAMLENS_SERVER_LISTEN_ADDR.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("db_path", ".teamlens/teamlens.db")
	v.SetDefault("domains_path", ".teamlens/domains.yaml")
	v.SetDefault("linear.endpoint", "https://api.linear.app/graphql")
	v.SetDefault("linear.page_size", 100)
	v.SetDefault("capture.throughput_target", 6.0)
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("ai.model", "claude-sonnet-4-5-20250929")

	v.SetEnvPrefix("TEAMLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Well-known unprefixed env vars fill in missing secrets.
	if cfg.Linear.APIKey == "" {
		cfg.Linear.APIKey = os.Getenv("LINEAR_API_KEY")
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Linear.PageSize < 1 || c.Linear.PageSize > 250 {
		return fmt.Errorf("linear.page_size must be between 1 and 250, got %d", c.Linear.PageSize)
	}
	if c.Capture.ThroughputTarget < 0 {
		return fmt.Errorf("capture.throughput_target must not be negative, got %v", c.Capture.ThroughputTarget)
	}
	return nil
}
