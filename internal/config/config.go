package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	DataFile        string        `mapstructure:"DATA_FILE"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	MirrorSchema    string        `mapstructure:"MIRROR_SCHEMA"`
	MirrorKeyPrefix string        `mapstructure:"MIRROR_KEY_PREFIX"`
	MirrorTimeout   time.Duration `mapstructure:"MIRROR_TIMEOUT"`
	MirrorQueueSize int           `mapstructure:"MIRROR_QUEUE_SIZE"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_FILE", "data/patients.json")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("MIRROR_SCHEMA", "public")
	v.SetDefault("MIRROR_KEY_PREFIX", "patient")
	v.SetDefault("MIRROR_TIMEOUT", "10s")
	v.SetDefault("MIRROR_QUEUE_SIZE", 32)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_FILE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("MIRROR_SCHEMA")
	v.BindEnv("MIRROR_KEY_PREFIX")
	v.BindEnv("MIRROR_TIMEOUT")
	v.BindEnv("MIRROR_QUEUE_SIZE")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MirrorQueueSize < 1 {
		return nil, fmt.Errorf("MIRROR_QUEUE_SIZE must be at least 1")
	}
	if cfg.MirrorTimeout <= 0 {
		return nil, fmt.Errorf("MIRROR_TIMEOUT must be positive")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
