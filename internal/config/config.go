// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	AllowedOrigin  string        `yaml:"allowed_origin"`  // CORS; "*" by default
	RequestTimeout time.Duration `yaml:"request_timeout"` // whole-request budget
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AIConfig struct {
	OpenAIKey       string        `yaml:"openai_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"` // any OpenAI-compatible gateway
	GeminiKey       string        `yaml:"gemini_key"`
	GeminiURL       string        `yaml:"gemini_url"`
	DefaultModel    string        `yaml:"default_model"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent provider calls
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // per provider call
}

type AuthConfig struct {
	HMACSecret string `yaml:"hmac_secret"`
}

type QuotaConfig struct {
	FreeDailyLimit int    `yaml:"free_daily_limit"`
	Timezone       string `yaml:"timezone"` // reference zone for the daily rollover
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Auth     AuthConfig     `yaml:"auth"`
	Quota    QuotaConfig    `yaml:"quota"`
	Lang     string         `yaml:"lang"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AllowedOrigin == "" {
		cfg.Server.AllowedOrigin = "*"
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 90 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.RequestTimeout <= 0 {
		cfg.AI.RequestTimeout = 60 * time.Second
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash"
	}
	if cfg.Quota.FreeDailyLimit <= 0 {
		cfg.Quota.FreeDailyLimit = 3
	}
	if cfg.Quota.Timezone == "" {
		cfg.Quota.Timezone = "Europe/Paris"
	}
	if cfg.Lang == "" {
		cfg.Lang = "fr"
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.HMACSecret == "" && !dev {
		return nil, errors.New("auth.hmac_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
