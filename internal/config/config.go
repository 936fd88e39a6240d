// Package config loads the process-wide settings of the summarizer service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "orca-mini"
	DefaultListen        = ":8000"
	DefaultAllowedOrigin = "http://localhost:3000"
)

// Config is read once at startup and handed to every component that needs it.
type Config struct {
	OllamaBaseURL  string        `env:"OLLAMA_BASE_URL"       envDefault:"http://localhost:11434"`
	OllamaModel    string        `env:"OLLAMA_MODEL"          envDefault:"orca-mini"`
	Listen         string        `env:"LISTEN_ADDR"           envDefault:":8000"`
	AllowedOrigin  string        `env:"ALLOWED_ORIGIN"        envDefault:"http://localhost:3000"`
	RequestTimeout time.Duration `env:"OLLAMA_TIMEOUT"        envDefault:"5m"`
	HealthTimeout  time.Duration `env:"OLLAMA_HEALTH_TIMEOUT" envDefault:"5s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES"      envDefault:"52428800"`
	LogLevel       string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT"            envDefault:"text"`
}

// Load reads an optional .env file at dotEnvPath and then parses the environment.
// An empty dotEnvPath skips the file. The result is normalized but not
// validated: callers apply their overrides first and then call Validate.
func Load(dotEnvPath string) (Config, error) {
	if dotEnvPath != "" {
		if err := loadDotEnv(dotEnvPath); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", dotEnvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize trims surrounding whitespace from the string settings and the
// trailing slash from the base URL.
func (c *Config) Normalize() {
	c.OllamaBaseURL = strings.TrimRight(strings.TrimSpace(c.OllamaBaseURL), "/")
	c.OllamaModel = strings.TrimSpace(c.OllamaModel)
	c.Listen = strings.TrimSpace(c.Listen)
	c.AllowedOrigin = strings.TrimSpace(c.AllowedOrigin)
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.OllamaBaseURL)
	if err != nil {
		return fmt.Errorf("OLLAMA_BASE_URL %q: %w", c.OllamaBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("OLLAMA_BASE_URL %q must be an absolute http(s) URL", c.OllamaBaseURL)
	}
	if c.OllamaModel == "" {
		return errors.New("OLLAMA_MODEL must not be empty")
	}
	if c.Listen == "" {
		return errors.New("LISTEN_ADDR must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("OLLAMA_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.HealthTimeout <= 0 {
		return fmt.Errorf("OLLAMA_HEALTH_TIMEOUT must be positive, got %s", c.HealthTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}
