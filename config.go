package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration. It is read from a YAML file whose
// values may reference environment variables as ${VAR}.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig configures the calculation result cache. An empty Address
// disables caching.
type RedisConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// OpenAIConfig configures the meal-ideas endpoint. An empty APIKey makes
// that endpoint fail with 503.
type OpenAIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// defaultConfig holds the values used for anything the file leaves unset.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           "localhost:3000",
			AllowedOrigins: []string{"http://localhost:5173"},
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   20 * time.Second,
		},
		Redis:     RedisConfig{TTL: time.Hour},
		RateLimit: RateLimitConfig{RequestsPerSecond: 10, Burst: 20},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o-mini",
			Timeout: 15 * time.Second,
		},
	}
}

// loadConfig loads .env (if present) and then the YAML file at path. A
// missing config file is not an error: defaults plus environment are used.
func loadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			// Substitute ${VAR} references before parsing.
			expanded := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expanded, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DB_URL")
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = os.Getenv("REDIS_ADDR")
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database url is required (database.url or DB_URL)")
	}
	return &cfg, nil
}
