// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

type RuntimeConfig struct {
	Dev bool
}

type APIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	UploadTimeout   time.Duration `yaml:"upload_timeout"`
	ConcurrentLimit int           `yaml:"concurrent_limit"` // max concurrent uploads
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ChatConfig struct {
	MaxMessageLen int `yaml:"max_message_len"`
}

type AnalysisConfig struct {
	StageDelay  time.Duration `yaml:"stage_delay"`  // pause after the upload stage
	SettleDelay time.Duration `yaml:"settle_delay"` // pause before completion
	NoticeTTL   time.Duration `yaml:"notice_ttl"`   // auto-dismiss for rejection notices
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Workers  int     `yaml:"workers"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type StubConfig struct {
	Port       int           `yaml:"port"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	Redis      RedisConfig   `yaml:"redis"`
}

type Config struct {
	API      APIConfig      `yaml:"api"`
	Log      LogConfig      `yaml:"log"`
	Chat     ChatConfig     `yaml:"chat"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Bot      BotConfig      `yaml:"bot"`
	Stub     StubConfig     `yaml:"stub"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path and applies built-in defaults.
// Flags stay with the entrypoints; only the parsed values come here.
func LoadConfig(path string, dev bool) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath:
		// No config file next to the binary; built-in defaults apply.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.API.UploadTimeout <= 0 {
		cfg.API.UploadTimeout = 3 * time.Minute
	}
	if cfg.API.ConcurrentLimit <= 0 {
		cfg.API.ConcurrentLimit = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Chat.MaxMessageLen <= 0 {
		cfg.Chat.MaxMessageLen = 500
	}
	if cfg.Analysis.StageDelay <= 0 {
		cfg.Analysis.StageDelay = 400 * time.Millisecond
	}
	if cfg.Analysis.SettleDelay <= 0 {
		cfg.Analysis.SettleDelay = 600 * time.Millisecond
	}
	if cfg.Analysis.NoticeTTL <= 0 {
		cfg.Analysis.NoticeTTL = 4 * time.Second
	}
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Stub.Port <= 0 {
		cfg.Stub.Port = 8000
	}
	if cfg.Stub.SessionTTL <= 0 {
		cfg.Stub.SessionTTL = 30 * time.Minute
	}
	cfg.Stub.Redis.TTL = normalizeTTL(cfg.Stub.Redis.TTL)

	// Minimal validation. The bot token is checked by cmd/bot itself so the
	// terminal client and the stub server run without one.
	if cfg.Stub.Redis.DB < 0 {
		return nil, errors.New("stub.redis.db must be >= 0")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
