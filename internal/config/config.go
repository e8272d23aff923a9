// Package config loads the optrack YAML configuration and applies
// environment variable overrides.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the optrack tools.
type Config struct {
	Storage Storage       `yaml:"storage"`
	Server  Server        `yaml:"server"`
	Alpaca  Alpaca        `yaml:"alpaca"`
	Logging Logging       `yaml:"logging"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Report  ReportConfig  `yaml:"report"`
}

// Storage holds paths for the append-only snapshot logs and exports.
type Storage struct {
	DataDir   string `yaml:"data_dir"`   // holds history.csv, portfolio.csv, last_run.txt
	ExportDir string `yaml:"export_dir"` // parquet export target
}

// Server holds network listener configuration for the dashboard.
type Server struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	WebDir string `yaml:"web_dir"` // static dashboard assets; empty disables
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
	Feed      string `yaml:"feed"` // option feed: "indicative" or "opra"
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FetchConfig controls the daily snapshot job.
type FetchConfig struct {
	PositionsFile   string `yaml:"positions_file"`
	Schedule        string `yaml:"schedule"` // cron expression for daemon mode
	MaxAttempts     int    `yaml:"max_attempts"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// ReportConfig controls the periodic email report.
type ReportConfig struct {
	Days       int    `yaml:"days"` // trailing window, default 7
	SMTPHost   string `yaml:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass"`
	From       string `yaml:"from"`
	Recipients string `yaml:"recipients"` // comma or newline separated
	SiteURL    string `yaml:"site_url"`   // linked from the report footer
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides and
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills in values that are safe to assume when unset.
func applyDefaults(cfg *Config) {
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Alpaca.Feed == "" {
		cfg.Alpaca.Feed = "indicative"
	}
	if cfg.Fetch.PositionsFile == "" {
		cfg.Fetch.PositionsFile = "config/positions.yaml"
	}
	if cfg.Fetch.MaxAttempts == 0 {
		cfg.Fetch.MaxAttempts = 3
	}
	if cfg.Fetch.RateLimitPerMin == 0 {
		cfg.Fetch.RateLimitPerMin = 120
	}
	if cfg.Report.Days == 0 {
		cfg.Report.Days = 7
	}
	if cfg.Report.SMTPPort == 0 {
		cfg.Report.SMTPPort = 587
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("EXPORT_DIR"); v != "" {
		cfg.Storage.ExportDir = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Report.SMTPHost = v
	}
	if v := os.Getenv("SMTP_USER"); v != "" {
		cfg.Report.SMTPUser = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		cfg.Report.SMTPPass = v
	}
	if v := os.Getenv("REPORT_FROM_EMAIL"); v != "" {
		cfg.Report.From = v
	}
	if v := os.Getenv("REPORT_TO_EMAILS"); v != "" {
		cfg.Report.Recipients = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.Report.SiteURL = strings.TrimRight(strings.TrimSpace(v), "/")
	}

	// Standard Alpaca env vars (highest priority — canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
