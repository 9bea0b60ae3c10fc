// Package config loads the YAML configuration file and applies environment
// variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the quantbt platform.
type Config struct {
	Storage  Storage  `yaml:"storage"`
	Data     Data     `yaml:"data"`
	Backtest Backtest `yaml:"backtest"`
	Report   Report   `yaml:"report"`
	Logging  Logging  `yaml:"logging"`
}

// Storage holds paths and backend selection for the local bar cache.
type Storage struct {
	// Backend selects the cache implementation: "parquet" or "sqlite".
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Data configures market-data providers.
type Data struct {
	// Provider names the default provider: "tushare" or "alpaca".
	Provider   string  `yaml:"provider"`
	AutoUpdate bool    `yaml:"auto_update"`
	Tushare    Tushare `yaml:"tushare"`
	Alpaca     Alpaca  `yaml:"alpaca"`
}

// Tushare holds credentials and limits for the Tushare Pro API.
type Tushare struct {
	Token           string `yaml:"token"`
	BaseURL         string `yaml:"base_url"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
	MaxRetries      int    `yaml:"max_retries"`
}

// Alpaca holds credentials for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// Backtest defines the simulation parameters. All values are fixed at
// construction time and never change mid-run.
type Backtest struct {
	InitialCapital float64 `yaml:"initial_capital"`
	CommissionRate float64 `yaml:"commission_rate"`
	MinCommission  float64 `yaml:"min_commission"`
	StampTaxRate   float64 `yaml:"stamp_tax_rate"`
	Slippage       float64 `yaml:"slippage"`
	RiskFreeRate   float64 `yaml:"risk_free_rate"`
}

// Report holds output settings for generated backtest reports.
type Report struct {
	OutputDir string `yaml:"output_dir"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

// A-share fee conventions: 0.03% commission with a 5 yuan floor, 0.1% stamp
// tax on sells only, 0.01% slippage.
// DefaultTushareBaseURL is the production Tushare Pro endpoint.
const DefaultTushareBaseURL = "https://api.tushare.pro"

const (
	DefaultInitialCapital = 100000.0
	DefaultCommissionRate = 0.0003
	DefaultMinCommission  = 5.0
	DefaultStampTaxRate   = 0.001
	DefaultSlippage       = 0.0001
	DefaultRiskFreeRate   = 0.03
)

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Storage: Storage{
			Backend:    "parquet",
			DataDir:    "./data/market",
			SQLitePath: "./data/quantbt.db",
		},
		Data: Data{
			Provider:   "tushare",
			AutoUpdate: true,
			Tushare: Tushare{
				BaseURL:         DefaultTushareBaseURL,
				RateLimitPerMin: 120,
				MaxRetries:      3,
			},
		},
		Backtest: Backtest{
			InitialCapital: DefaultInitialCapital,
			CommissionRate: DefaultCommissionRate,
			MinCommission:  DefaultMinCommission,
			StampTaxRate:   DefaultStampTaxRate,
			Slippage:       DefaultSlippage,
			RiskFreeRate:   DefaultRiskFreeRate,
		},
		Report: Report{
			OutputDir: "./reports/backtest",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, merges it over
// the defaults, and then applies environment variable overrides. A .env file
// in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	// Missing .env is fine; ignore the error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("TUSHARE_TOKEN"); v != "" {
		cfg.Data.Tushare.Token = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Data.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Data.Alpaca.APISecret = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Canonical Alpaca SDK env vars take precedence.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Data.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Data.Alpaca.APISecret = v
	}
}
