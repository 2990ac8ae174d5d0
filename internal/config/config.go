package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	JWTSecret   string `yaml:"jwt_secret"`
}

type StorageConfig struct {
	DataPath string `yaml:"data_path"`
}

type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DashboardConfig struct {
	// UrgentWindowDays is how close a due/expiration date must be before
	// a record is flagged for attention
	UrgentWindowDays int `yaml:"urgent_window_days"`
	// UpcomingLimit caps the upcoming-tasks list on the dashboard
	UpcomingLimit int `yaml:"upcoming_limit"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Environment: "development",
		},
		Storage: StorageConfig{
			DataPath: "./data",
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Dashboard: DashboardConfig{
			UrgentWindowDays: 30,
			UpcomingLimit:    5,
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults for
// a missing file, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Dashboard.UrgentWindowDays <= 0 {
		cfg.Dashboard.UrgentWindowDays = 30
	}
	if cfg.Dashboard.UpcomingLimit <= 0 {
		cfg.Dashboard.UpcomingLimit = 5
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COMPTRACK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("COMPTRACK_ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("COMPTRACK_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("COMPTRACK_DATA_PATH"); v != "" {
		c.Storage.DataPath = v
	}
	if v := os.Getenv("COMPTRACK_REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
		c.Cache.Enabled = true
	}
	if v := os.Getenv("COMPTRACK_REDIS_PASSWORD"); v != "" {
		c.Cache.Password = v
	}
}
