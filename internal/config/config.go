package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL              string `yaml:"base_url"`
		Token                string `yaml:"token"`
		TimeoutSec           int    `yaml:"timeout_sec"`
		MaxTickersPerRequest int    `yaml:"max_tickers_per_request"`
		MaxConcurrency       int    `yaml:"max_concurrency"`
		CacheTTLSec          int    `yaml:"cache_ttl_sec"`
		CacheCapacity        int    `yaml:"cache_capacity"`
		Mock                 bool   `yaml:"mock"`
	} `yaml:"data_source"`
	Query struct {
		Tickers  []string `yaml:"tickers"`
		Range    string   `yaml:"range"`
		Interval string   `yaml:"interval"`
	} `yaml:"query"`
	Report struct {
		Out              string `yaml:"out"`
		Title            string `yaml:"title"`
		AssetsHost       string `yaml:"assets_host"`
		RenderTimeoutSec int    `yaml:"render_timeout_sec"`
	} `yaml:"report"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BRAPI_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BRAPI_TOKEN"); v != "" {
		cfg.DataSource.Token = v
	}
	if v := os.Getenv("QUOTE_MOCK"); v != "" {
		cfg.DataSource.Mock = v == "true" || v == "1"
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Query.Tickers = SplitTickers(v)
	}
	if v := os.Getenv("REPORT_OUT"); v != "" {
		cfg.Report.Out = v
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://brapi.dev/api/quote"
	}
	if c.DataSource.TimeoutSec == 0 {
		c.DataSource.TimeoutSec = 30
	}
	if c.DataSource.MaxTickersPerRequest == 0 {
		c.DataSource.MaxTickersPerRequest = 10
	}
	if c.DataSource.MaxConcurrency == 0 {
		c.DataSource.MaxConcurrency = 2
	}
	if c.DataSource.CacheCapacity == 0 {
		c.DataSource.CacheCapacity = 64
	}
	if c.Query.Range == "" {
		c.Query.Range = "1y"
	}
	if c.Query.Interval == "" {
		c.Query.Interval = "1d"
	}
	if c.Report.Out == "" {
		c.Report.Out = "output/relatorio.pdf"
	}
	if c.Report.RenderTimeoutSec == 0 {
		c.Report.RenderTimeoutSec = 60
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Query.Tickers) == 0 {
		return errors.New("query.tickers: at least one ticker is required")
	}
	if c.DataSource.BaseURL == "" {
		return errors.New("data_source.base_url is required")
	}
	if c.DataSource.TimeoutSec <= 0 {
		return errors.New("data_source.timeout_sec must be positive")
	}
	if c.DataSource.MaxTickersPerRequest <= 0 {
		return errors.New("data_source.max_tickers_per_request must be positive")
	}
	if c.DataSource.MaxConcurrency <= 0 {
		return errors.New("data_source.max_concurrency must be positive")
	}
	if c.DataSource.CacheTTLSec < 0 {
		return errors.New("data_source.cache_ttl_sec must not be negative")
	}
	if c.DataSource.CacheCapacity <= 0 {
		return errors.New("data_source.cache_capacity must be positive")
	}
	if c.Report.RenderTimeoutSec <= 0 {
		return errors.New("report.render_timeout_sec must be positive")
	}
	return nil
}

// ReportTitle returns the configured title, or one derived from range and interval.
func (c *Config) ReportTitle() string {
	if c.Report.Title != "" {
		return c.Report.Title
	}
	return fmt.Sprintf("Quote Report — brapi.dev (%s/%s)", c.Query.Range, c.Query.Interval)
}

// Timeout is the upstream HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSec) * time.Second
}

// CacheTTL is zero when caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.DataSource.CacheTTLSec) * time.Second
}

func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Report.RenderTimeoutSec) * time.Second
}

// SplitTickers splits a comma separated list, trimming blanks and upper-casing.
func SplitTickers(csv string) []string {
	var out []string
	for _, t := range strings.Split(csv, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
