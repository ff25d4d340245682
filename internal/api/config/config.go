package config

import (
	"errors"

	"golang-stock-portfolio/pkg/config"
)

// Config holds the full configuration for the API service.
type Config struct {
	App          config.App          `mapstructure:"app"`
	Logger       config.Logger       `mapstructure:"logger"`
	Database     config.Database     `mapstructure:"database"`
	Redis        config.Redis        `mapstructure:"redis"`
	API          config.API          `mapstructure:"api"`
	JWT          config.JWT          `mapstructure:"jwt"`
	Password     config.Password     `mapstructure:"password"`
	MarketData   config.MarketData   `mapstructure:"market_data"`
	PriceRefresh config.PriceRefresh `mapstructure:"price_refresh"`
	Telegram     config.Telegram     `mapstructure:"telegram"`
}

// Load loads the API configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWT.SigningKey == "" {
		return errors.New("jwt.signing_key is required")
	}
	switch c.MarketData.CacheBackend {
	case "memory", "none", "":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("market_data.cache_backend redis requires redis.enabled")
		}
	default:
		return errors.New("market_data.cache_backend must be one of memory, redis, none")
	}
	if c.PriceRefresh.Enabled && c.PriceRefresh.Cron == "" {
		return errors.New("price_refresh.cron is required when price_refresh.enabled")
	}
	return nil
}
