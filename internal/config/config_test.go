package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	yamlContent := []byte(`
storage:
  data_dir: "/tmp/optrack/data"
  export_dir: "/tmp/optrack/export"
server:
  host: "0.0.0.0"
  port: 8090
  web_dir: "web"
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  data_url: "https://data.alpaca.markets"
  feed: "opra"
logging:
  level: "debug"
  format: "text"
fetch:
  positions_file: "config/positions.yaml"
  schedule: "0 22 * * *"
  max_attempts: 5
  rate_limit_per_min: 60
report:
  days: 14
  smtp_host: "smtp-relay.example.com"
  smtp_port: 587
  from: "reports@example.com"
  recipients: "a@example.com,b@example.com"
`)

	tmpFile, err := os.CreateTemp("", "optrack-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("ALPACA_API_KEY")
	os.Unsetenv("ALPACA_API_SECRET")
	os.Unsetenv("APCA_API_KEY_ID")
	os.Unsetenv("APCA_API_SECRET_KEY")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/optrack/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/optrack/data")
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8090)
	}
	if cfg.Server.WebDir != "web" {
		t.Errorf("Server.WebDir = %q, want %q", cfg.Server.WebDir, "web")
	}
	if cfg.Alpaca.APIKey != "test-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q", cfg.Alpaca.APIKey, "test-key")
	}
	if cfg.Alpaca.Feed != "opra" {
		t.Errorf("Alpaca.Feed = %q, want %q", cfg.Alpaca.Feed, "opra")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Fetch.Schedule != "0 22 * * *" {
		t.Errorf("Fetch.Schedule = %q, want %q", cfg.Fetch.Schedule, "0 22 * * *")
	}
	if cfg.Fetch.MaxAttempts != 5 {
		t.Errorf("Fetch.MaxAttempts = %d, want %d", cfg.Fetch.MaxAttempts, 5)
	}
	if cfg.Report.Days != 14 {
		t.Errorf("Report.Days = %d, want %d", cfg.Report.Days, 14)
	}
	if cfg.Report.Recipients != "a@example.com,b@example.com" {
		t.Errorf("Report.Recipients = %q", cfg.Report.Recipients)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "optrack-config-empty-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.WriteString("{}\n")
	tmpFile.Close()

	os.Unsetenv("DATA_DIR")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "data" {
		t.Errorf("default Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "data")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Alpaca.Feed != "indicative" {
		t.Errorf("default Alpaca.Feed = %q, want %q", cfg.Alpaca.Feed, "indicative")
	}
	if cfg.Fetch.MaxAttempts != 3 {
		t.Errorf("default Fetch.MaxAttempts = %d, want %d", cfg.Fetch.MaxAttempts, 3)
	}
	if cfg.Report.Days != 7 {
		t.Errorf("default Report.Days = %d, want %d", cfg.Report.Days, 7)
	}
	if cfg.Report.SMTPPort != 587 {
		t.Errorf("default Report.SMTPPort = %d, want %d", cfg.Report.SMTPPort, 587)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
storage:
  data_dir: "/original/data"
`)

	tmpFile, err := os.CreateTemp("", "optrack-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Setenv("ALPACA_API_KEY", "env-key")
	os.Setenv("DATA_DIR", "/env/data")
	os.Unsetenv("APCA_API_KEY_ID")
	os.Unsetenv("APCA_API_SECRET_KEY")
	defer os.Unsetenv("ALPACA_API_KEY")
	defer os.Unsetenv("DATA_DIR")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "env-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (env override)", cfg.Alpaca.APIKey, "env-key")
	}
	// api_secret should remain from YAML since no env override was set.
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q (from YAML)", cfg.Alpaca.APISecret, "yaml-secret")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
}
