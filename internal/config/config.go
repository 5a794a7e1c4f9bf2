package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profit formula names. Exactly one is applied to the whole cleaned table.
const (
	ProfitPerUnit = "per_unit"
	ProfitCurrent = "current"
	ProfitFixed40 = "fixed40"
)

// Heatmap metric choices for the branch×month view.
const (
	MetricCases   = "cases"
	MetricRevenue = "revenue"
)

// Top-N bounds for all view sliders.
const (
	TopNMin     = 5
	TopNMax     = 60
	TopNDefault = 20
)

// Config holds all runtime configuration for a clinicstats run.
type Config struct {
	Source    string // local path or HTTP URL to the dataset
	DSN       string // Postgres connection string (export only)
	LogFormat string // "text" or "json"

	ListenAddr    string        `yaml:"listen_addr"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	ProfitFormula string        `yaml:"profit_formula"`
	StrictDedup   bool          `yaml:"strict_dedup"`
	TopN          int           `yaml:"top_n"`
	HeatmapMetric string        `yaml:"heatmap_metric"`

	// Filter flags for report/export runs.
	StartDate string
	EndDate   string
	Branches  []string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	CacheTTL      string `yaml:"cache_ttl"`
	ProfitFormula string `yaml:"profit_formula"`
	StrictDedup   *bool  `yaml:"strict_dedup"`
	TopN          int    `yaml:"top_n"`
	HeatmapMetric string `yaml:"heatmap_metric"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Keys present in the file overwrite whatever the struct already holds; the
// CLI re-applies explicitly-set flags afterwards so flags win over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.ListenAddr != "" {
		c.ListenAddr = yc.ListenAddr
	}
	if yc.CacheTTL != "" {
		ttl, err := time.ParseDuration(yc.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache_ttl %q: %w", yc.CacheTTL, err)
		}
		c.CacheTTL = ttl
	}
	if yc.ProfitFormula != "" {
		c.ProfitFormula = yc.ProfitFormula
	}
	if yc.StrictDedup != nil {
		c.StrictDedup = *yc.StrictDedup
	}
	if yc.TopN != 0 {
		c.TopN = yc.TopN
	}
	if yc.HeatmapMetric != "" {
		c.HeatmapMetric = yc.HeatmapMetric
	}
	return nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8573"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.ProfitFormula == "" {
		c.ProfitFormula = ProfitPerUnit
	}
	if c.TopN == 0 {
		c.TopN = TopNDefault
	}
	if c.HeatmapMetric == "" {
		c.HeatmapMetric = MetricCases
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("--source or CLINICSTATS_SOURCE is required")
	}
	switch c.ProfitFormula {
	case ProfitPerUnit, ProfitCurrent, ProfitFixed40:
	default:
		return fmt.Errorf("unknown profit formula %q (want %s, %s or %s)",
			c.ProfitFormula, ProfitPerUnit, ProfitCurrent, ProfitFixed40)
	}
	switch c.HeatmapMetric {
	case MetricCases, MetricRevenue:
	default:
		return fmt.Errorf("unknown heatmap metric %q (want %s or %s)",
			c.HeatmapMetric, MetricCases, MetricRevenue)
	}
	if c.TopN < TopNMin || c.TopN > TopNMax {
		return fmt.Errorf("top-n %d out of range [%d, %d]", c.TopN, TopNMin, TopNMax)
	}
	for _, d := range []string{c.StartDate, c.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", d)
		}
	}
	return nil
}

// ValidateWithDSN checks both source and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
