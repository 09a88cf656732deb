// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads configuration from config.yaml and environment
// variables. Environment variables win over the file; the file's ${VAR}
// references are expanded before parsing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Journal backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
)

const (
	defaultConfigPath = "config.yaml"
	defaultTextModel  = "https://api-inference.huggingface.co/models/bhadresh-savani/distilbert-base-emotion"
)

// MusicConfig configures the music provider.
type MusicConfig struct {
	ClientID      string
	ClientSecret  string
	BaseURL       string  `validate:"omitempty,url"`
	TokenURL      string  `validate:"omitempty,url"`
	Limit         int     `validate:"gte=0,lte=50"`
	RatePerSecond float64 `validate:"gte=0"`
	Burst         int     `validate:"gte=0"`
}

// MovieConfig configures the movie provider.
type MovieConfig struct {
	APIKey        string
	BaseURL       string  `validate:"omitempty,url"`
	Limit         int     `validate:"gte=0,lte=20"`
	RatePerSecond float64 `validate:"gte=0"`
	Burst         int     `validate:"gte=0"`
}

// QuoteConfig configures the quote provider.
type QuoteConfig struct {
	BaseURL       string  `validate:"omitempty,url"`
	Limit         int     `validate:"gte=0,lte=50"`
	RatePerSecond float64 `validate:"gte=0"`
	Burst         int     `validate:"gte=0"`
}

// ModelConfig locates the emotion models. An empty URL disables that input
// kind.
type ModelConfig struct {
	TextURL string        `validate:"omitempty,url"`
	FaceURL string        `validate:"omitempty,url"`
	Token   string
	Timeout time.Duration `validate:"gt=0"`
}

// JournalConfig selects and configures the journal store.
type JournalConfig struct {
	Backend     string `validate:"oneof=file postgres badger"`
	Path        string `validate:"required_if=Backend file"`
	BadgerDir   string `validate:"required_if=Backend badger"`
	DatabaseURL string `validate:"required_if=Backend postgres"`
}

// Config holds all configuration for the MoodBoard service.
type Config struct {
	Port     int    `validate:"min=1,max=65535"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// Provider plumbing
	ProviderTimeout  time.Duration `validate:"gt=0"`
	FailureThreshold uint32        `validate:"gte=1"`
	OpenTimeout      time.Duration `validate:"gt=0"`

	Music  MusicConfig
	Movie  MovieConfig
	Quote  QuoteConfig
	Models ModelConfig

	// Redis; an empty URL disables caching, dedup and journal events.
	RedisURL     string        `validate:"omitempty,url"`
	CacheTTL     time.Duration `validate:"gte=0"`
	JournalQueue string

	Journal JournalConfig
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Server struct {
		Port     int    `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Providers struct {
		Timeout string `yaml:"timeout"`
		Circuit struct {
			FailureThreshold uint32 `yaml:"failure_threshold"`
			OpenTimeout      string `yaml:"open_timeout"`
		} `yaml:"circuit"`
		Music struct {
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
			TokenURL     string `yaml:"token_url"`
			rawProvider  `yaml:",inline"`
		} `yaml:"music"`
		Movie struct {
			APIKey      string `yaml:"api_key"`
			rawProvider `yaml:",inline"`
		} `yaml:"movie"`
		Quote rawProvider `yaml:"quote"`
	} `yaml:"providers"`
	Models struct {
		TextURL string `yaml:"text_url"`
		FaceURL string `yaml:"face_url"`
		Token   string `yaml:"token"`
		Timeout string `yaml:"timeout"`
	} `yaml:"models"`
	Redis struct {
		URL      string `yaml:"url"`
		CacheTTL string `yaml:"cache_ttl"`
		Queues   struct {
			Journal string `yaml:"journal"`
		} `yaml:"queues"`
	} `yaml:"redis"`
	Journal struct {
		Backend     string `yaml:"backend"`
		Path        string `yaml:"path"`
		BadgerDir   string `yaml:"badger_dir"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"journal"`
}

type rawProvider struct {
	BaseURL       string  `yaml:"base_url"`
	Limit         int     `yaml:"limit"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// Load reads configuration from CONFIG_PATH (default config.yaml). The
// default file may be absent; an explicitly named one may not.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit || path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Info("no config file, using environment and defaults", "path", path)
		data = nil
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse builds a Config from YAML (with env var expansion), environment
// overrides and defaults, then validates it.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if len(data) > 0 {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	var errs []error
	duration := func(envKey, yamlVal string, fallback time.Duration) time.Duration {
		d, err := parseDuration(pick(envKey, yamlVal, ""), fallback)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envKey, err))
		}
		return d
	}

	p := raw.Providers
	cfg := &Config{
		Port:             pickInt("PORT", raw.Server.Port, 8080),
		LogLevel:         strings.ToLower(pick("LOG_LEVEL", raw.Server.LogLevel, "info")),
		ProviderTimeout:  duration("PROVIDER_TIMEOUT", p.Timeout, 5*time.Second),
		FailureThreshold: firstPositive(p.Circuit.FailureThreshold, 5),
		OpenTimeout:      duration("PROVIDER_OPEN_TIMEOUT", p.Circuit.OpenTimeout, 30*time.Second),

		Music: MusicConfig{
			ClientID:      pick("SPOTIFY_CLIENT_ID", p.Music.ClientID, ""),
			ClientSecret:  pick("SPOTIFY_CLIENT_SECRET", p.Music.ClientSecret, ""),
			BaseURL:       p.Music.BaseURL,
			TokenURL:      p.Music.TokenURL,
			Limit:         p.Music.Limit,
			RatePerSecond: firstPositive(p.Music.RatePerSecond, 5),
			Burst:         firstPositive(p.Music.Burst, 5),
		},
		Movie: MovieConfig{
			APIKey:        pick("TMDB_API_KEY", p.Movie.APIKey, ""),
			BaseURL:       p.Movie.BaseURL,
			Limit:         p.Movie.Limit,
			RatePerSecond: firstPositive(p.Movie.RatePerSecond, 20),
			Burst:         firstPositive(p.Movie.Burst, 10),
		},
		Quote: QuoteConfig{
			BaseURL:       p.Quote.BaseURL,
			Limit:         p.Quote.Limit,
			RatePerSecond: firstPositive(p.Quote.RatePerSecond, 2),
			Burst:         firstPositive(p.Quote.Burst, 2),
		},
		Models: ModelConfig{
			TextURL: pick("TEXT_MODEL_URL", raw.Models.TextURL, defaultTextModel),
			FaceURL: pick("FACE_MODEL_URL", raw.Models.FaceURL, ""),
			Token:   pick("HF_API_TOKEN", raw.Models.Token, ""),
			Timeout: duration("MODEL_TIMEOUT", raw.Models.Timeout, 30*time.Second),
		},

		RedisURL:     pick("REDIS_URL", raw.Redis.URL, ""),
		CacheTTL:     duration("CACHE_TTL", raw.Redis.CacheTTL, 10*time.Minute),
		JournalQueue: pick("JOURNAL_QUEUE", raw.Redis.Queues.Journal, "moodboard:journal"),

		Journal: JournalConfig{
			Backend:     strings.ToLower(pick("JOURNAL_BACKEND", raw.Journal.Backend, BackendFile)),
			Path:        pick("JOURNAL_PATH", raw.Journal.Path, "data/mood_journal.json"),
			BadgerDir:   pick("JOURNAL_BADGER_DIR", raw.Journal.BadgerDir, "data/journal.badger"),
			DatabaseURL: pick("DATABASE_URL", raw.Journal.DatabaseURL, ""),
		},
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// pick returns the env var if set, then the file value, then fallback.
func pick(envKey, fileVal, fallback string) string {
	if v := os.Getenv(envKey); strings.TrimSpace(v) != "" {
		return v
	}
	if strings.TrimSpace(fileVal) != "" {
		return fileVal
	}
	return fallback
}

func pickInt(envKey string, fileVal, fallback int) int {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if fileVal != 0 {
		return fileVal
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

func firstPositive[T int | uint32 | float64](v, fallback T) T {
	if v > 0 {
		return v
	}
	return fallback
}
