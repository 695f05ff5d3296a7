// Package config loads settings from a YAML file, QPL_* environment
// variables and an optional .env file, in increasing order of precedence
// below explicit command line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	qpl "github.com/AhmadAlkadri/quant-pricing-lab"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/mc"
	"github.com/AhmadAlkadri/quant-pricing-lab/engine/pde"
	"github.com/AhmadAlkadri/quant-pricing-lab/marketdata"
	"github.com/AhmadAlkadri/quant-pricing-lab/report"
	"github.com/AhmadAlkadri/quant-pricing-lab/stats"
)

const envPrefix = "QPL"

// Config is the complete application configuration.
type Config struct {
	MC         mc.Config        `mapstructure:"mc"         yaml:"mc"`
	PDE        pde.Config       `mapstructure:"pde"        yaml:"pde"`
	Market     MarketConfig     `mapstructure:"market"     yaml:"market"`
	MarketData MarketDataConfig `mapstructure:"marketdata" yaml:"marketdata"`
	Report     ReportConfig     `mapstructure:"report"     yaml:"report"`
}

// MarketConfig holds the market and model inputs used when a command does
// not set them.
type MarketConfig struct {
	Rate          float64 `mapstructure:"rate"           yaml:"rate"`
	DividendYield float64 `mapstructure:"dividend_yield" yaml:"dividend_yield"`
	Sigma         float64 `mapstructure:"sigma"          yaml:"sigma"`
	AllowNegative bool    `mapstructure:"allow_negative" yaml:"allow_negative"`
}

// MarketDataConfig configures the price download client and its cache.
type MarketDataConfig struct {
	BaseURL       string        `mapstructure:"base_url"      yaml:"base_url"`
	CacheDir      string        `mapstructure:"cache_dir"     yaml:"cache_dir"`
	MaxRetries    int           `mapstructure:"max_retries"   yaml:"max_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"   yaml:"retry_delay"`
	Annualization float64       `mapstructure:"annualization" yaml:"annualization"`
}

// ReportConfig controls output formatting.
type ReportConfig struct {
	Places    int32   `mapstructure:"places"    yaml:"places"`
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

// Settings returns the engine configuration for the dispatcher.
func (c *Config) Settings() qpl.Settings {
	return qpl.Settings{MC: c.MC, PDE: c.PDE}
}

// Validate checks the engine sections so that a bad file fails at startup
// rather than on the first pricing call.
func (c *Config) Validate() error {
	if err := c.MC.Validate(); err != nil {
		return fmt.Errorf("mc: %w", err)
	}
	if err := c.PDE.Validate(); err != nil {
		return fmt.Errorf("pde: %w", err)
	}
	return nil
}

// NewCache builds the market data cache backed by a live client.
func (c *Config) NewCache() *marketdata.Cache {
	client := marketdata.NewClient()
	client.BaseURL = c.MarketData.BaseURL
	client.MaxRetries = c.MarketData.MaxRetries
	client.RetryDelay = c.MarketData.RetryDelay
	return marketdata.NewCache(c.MarketData.CacheDir, client)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads qpl.yaml from the working directory or ~/.qpl when present.
// Environment variables override file values.
// Format: QPL_<SECTION>_<KEY>, e.g. QPL_MC_N_PATHS.
func Load() (*Config, error) {
	LoadEnv(".env")
	v := newViper()
	v.SetConfigName("qpl")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(homeDir(), ".qpl"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	LoadEnv(".env")
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func setDefaults(v *viper.Viper) {
	d := qpl.DefaultSettings()

	v.SetDefault("mc.n_paths", d.MC.NPaths)
	v.SetDefault("mc.n_steps", d.MC.NSteps)
	v.SetDefault("mc.seed", d.MC.Seed)
	// zero bumps select the engine's own defaults.
	v.SetDefault("mc.bumps.spot", 0.0)
	v.SetDefault("mc.bumps.sigma", 0.0)
	v.SetDefault("mc.bumps.rate", 0.0)
	v.SetDefault("mc.bumps.time", 0.0)

	v.SetDefault("pde.n_s", d.PDE.NS)
	v.SetDefault("pde.n_t", d.PDE.NT)
	v.SetDefault("pde.theta", d.PDE.Theta)
	v.SetDefault("pde.s_max", 0.0)
	v.SetDefault("pde.s_max_multiplier", d.PDE.SMaxMultiplier)

	v.SetDefault("market.rate", 0.05)
	v.SetDefault("market.dividend_yield", 0.0)
	v.SetDefault("market.sigma", 0.2)
	v.SetDefault("market.allow_negative", false)

	v.SetDefault("marketdata.base_url", marketdata.DefaultBaseURL)
	v.SetDefault("marketdata.cache_dir", marketdata.DefaultCacheDir)
	v.SetDefault("marketdata.max_retries", marketdata.DefaultMaxRetries)
	v.SetDefault("marketdata.retry_delay", "1s")
	v.SetDefault("marketdata.annualization", stats.TradingDays)

	v.SetDefault("report.places", report.DefaultPlaces)
	v.SetDefault("report.tolerance", 1e-2)
}
