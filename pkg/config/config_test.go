package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
environment: test
server:
  port: 8080
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 5s
ingest:
  type: websocket
stream:
  api_key: test-key
  websocket_url: wss://example.test
  reconnect_delay: 5s
  ping_interval: 30s
watchlist:
  symbols: [AAPL, MSFT]
  intervals: [5m]
prediction:
  tech_weight: 0.5
  sentiment_weight: 0.5
  threshold: 20
  signal_window: 2h
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout)
	}
	if len(cfg.Watchlist.Symbols) != 2 {
		t.Errorf("symbols = %v", cfg.Watchlist.Symbols)
	}
	if cfg.Prediction.SignalWindow != 2*time.Hour {
		t.Errorf("signal_window = %v", cfg.Prediction.SignalWindow)
	}
}

func TestLoadRejectsUnknownIngest(t *testing.T) {
	body := `
environment: test
ingest:
  type: carrier-pigeon
watchlist:
  symbols: [AAPL]
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	body := `
environment: test
ingest:
  type: websocket
watchlist:
  symbols: [AAPL]
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for missing api key")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	body := `
environment: test
ingest:
  type: kafka
watchlist:
  symbols: [AAPL]
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for missing brokers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("STREAM_API_KEY", "env-key")
	t.Setenv("WATCHLIST", "TSLA,NVDA")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Stream.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Stream.APIKey)
	}
	if len(cfg.Watchlist.Symbols) != 2 || cfg.Watchlist.Symbols[0] != "TSLA" {
		t.Errorf("symbols = %v", cfg.Watchlist.Symbols)
	}
}
