package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	yamlContent := []byte(`
storage:
  backend: "sqlite"
  data_dir: "/tmp/quantbt/data"
  sqlite_path: "/tmp/quantbt/quantbt.db"
data:
  provider: "tushare"
  auto_update: true
  tushare:
    token: "test-token"
    rate_limit_per_min: 60
    max_retries: 5
backtest:
  initial_capital: 200000
  commission_rate: 0.0005
  min_commission: 5
  stamp_tax_rate: 0.001
  slippage: 0.0002
  risk_free_rate: 0.025
report:
  output_dir: "/tmp/quantbt/reports"
logging:
  level: "debug"
  format: "text"
`)

	tmpFile, err := os.CreateTemp("", "quantbt-config-*.yaml")
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
	os.Unsetenv("TUSHARE_TOKEN")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SQLITE_PATH")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("APCA_API_KEY_ID")
	os.Unsetenv("APCA_API_SECRET_KEY")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- Storage --
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "sqlite")
	}
	if cfg.Storage.DataDir != "/tmp/quantbt/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/tmp/quantbt/data")
	}

	// -- Data --
	if cfg.Data.Provider != "tushare" {
		t.Errorf("Data.Provider = %q, want %q", cfg.Data.Provider, "tushare")
	}
	if cfg.Data.Tushare.Token != "test-token" {
		t.Errorf("Data.Tushare.Token = %q, want %q", cfg.Data.Tushare.Token, "test-token")
	}
	if cfg.Data.Tushare.RateLimitPerMin != 60 {
		t.Errorf("Data.Tushare.RateLimitPerMin = %d, want 60", cfg.Data.Tushare.RateLimitPerMin)
	}
	// Unset fields keep their defaults.
	if cfg.Data.Tushare.BaseURL != "https://api.tushare.pro" {
		t.Errorf("Data.Tushare.BaseURL = %q, want default", cfg.Data.Tushare.BaseURL)
	}

	// -- Backtest --
	if cfg.Backtest.InitialCapital != 200000 {
		t.Errorf("Backtest.InitialCapital = %v, want 200000", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.CommissionRate != 0.0005 {
		t.Errorf("Backtest.CommissionRate = %v, want 0.0005", cfg.Backtest.CommissionRate)
	}
	if cfg.Backtest.RiskFreeRate != 0.025 {
		t.Errorf("Backtest.RiskFreeRate = %v, want 0.025", cfg.Backtest.RiskFreeRate)
	}

	// -- Report / Logging --
	if cfg.Report.OutputDir != "/tmp/quantbt/reports" {
		t.Errorf("Report.OutputDir = %q, want %q", cfg.Report.OutputDir, "/tmp/quantbt/reports")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
data:
  tushare:
    token: "yaml-token"
storage:
  data_dir: "/original/data"
`)

	tmpFile, err := os.CreateTemp("", "quantbt-config-env-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	os.Setenv("TUSHARE_TOKEN", "env-token")
	os.Setenv("DATA_DIR", "/env/data")
	defer os.Unsetenv("TUSHARE_TOKEN")
	defer os.Unsetenv("DATA_DIR")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Data.Tushare.Token != "env-token" {
		t.Errorf("Data.Tushare.Token = %q, want %q (env override)", cfg.Data.Tushare.Token, "env-token")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backtest.InitialCapital != DefaultInitialCapital {
		t.Errorf("InitialCapital = %v, want %v", cfg.Backtest.InitialCapital, DefaultInitialCapital)
	}
	if cfg.Backtest.CommissionRate != DefaultCommissionRate {
		t.Errorf("CommissionRate = %v, want %v", cfg.Backtest.CommissionRate, DefaultCommissionRate)
	}
	if cfg.Backtest.MinCommission != DefaultMinCommission {
		t.Errorf("MinCommission = %v, want %v", cfg.Backtest.MinCommission, DefaultMinCommission)
	}
	if cfg.Backtest.StampTaxRate != DefaultStampTaxRate {
		t.Errorf("StampTaxRate = %v, want %v", cfg.Backtest.StampTaxRate, DefaultStampTaxRate)
	}
	if cfg.Storage.Backend != "parquet" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "parquet")
	}
}
