package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port   int    `yaml:"port"`
		APIKey string `yaml:"api_key"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Upstream struct {
		Enabled         bool    `yaml:"enabled"`
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RatePerSecond   float64 `yaml:"rate_per_second"`
		Burst           int     `yaml:"burst"`
	} `yaml:"upstream"`

	Refresh struct {
		Enabled         bool `yaml:"enabled"`
		IntervalMinutes int  `yaml:"interval_minutes"`
	} `yaml:"refresh"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Occupancy struct {
		DefaultTotalRooms int `yaml:"default_total_rooms"`
		MaxRangeDays      int `yaml:"max_range_days"`
	} `yaml:"occupancy"`

	Google struct {
		Enabled         bool   `yaml:"enabled"`
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		SheetName       string `yaml:"sheet_name"`
	} `yaml:"google"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/hotelier.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ServerPort() int {
	if c.Server.Port <= 0 {
		return 8080
	}
	return c.Server.Port
}

func (c *Config) DefaultTotalRooms() int {
	if c.Occupancy.DefaultTotalRooms <= 0 {
		return 5
	}
	return c.Occupancy.DefaultTotalRooms
}

func (c *Config) MaxRangeDays() int {
	if c.Occupancy.MaxRangeDays <= 0 {
		return 90
	}
	return c.Occupancy.MaxRangeDays
}

func (c *Config) RefreshInterval() time.Duration {
	if c.Refresh.IntervalMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Refresh.IntervalMinutes) * time.Minute
}

func (c *Config) UpstreamCacheTTL() time.Duration {
	if c.Upstream.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Upstream.CacheTTLSeconds) * time.Second
}
