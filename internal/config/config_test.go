package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"OLLAMA_BASE_URL",
	"OLLAMA_MODEL",
	"LISTEN_ADDR",
	"ALLOWED_ORIGIN",
	"OLLAMA_TIMEOUT",
	"OLLAMA_HEALTH_TIMEOUT",
	"MAX_UPLOAD_BYTES",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultOllamaBaseURL, cfg.OllamaBaseURL)
	assert.Equal(t, DefaultOllamaModel, cfg.OllamaModel)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultAllowedOrigin, cfg.AllowedOrigin)
	assert.Equal(t, 5*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.HealthTimeout)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OLLAMA_BASE_URL", " http://ollama:11434/ ")
	t.Setenv("OLLAMA_MODEL", "mistral")
	t.Setenv("OLLAMA_TIMEOUT", "90s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://ollama:11434", cfg.OllamaBaseURL, "base URL should be trimmed")
	assert.Equal(t, "mistral", cfg.OllamaModel)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OLLAMA_MODEL=phi\nALLOWED_ORIGIN=https://app.example.com\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "phi", cfg.OllamaModel)
	assert.Equal(t, "https://app.example.com", cfg.AllowedOrigin)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, cfg.OllamaModel)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("OLLAMA_TIMEOUT", "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	clearEnv(t)
	t.Setenv("OLLAMA_BASE_URL", "localhost:11434")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.OllamaBaseURL = "http://ollama:11434"
	assert.NoError(t, cfg.Validate())
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		OllamaBaseURL: "  http://ollama:11434//\t",
		OllamaModel:   " mistral\n",
		Listen:        " :9000 ",
		AllowedOrigin: "https://app.example.com ",
	}
	cfg.Normalize()

	assert.Equal(t, "http://ollama:11434", cfg.OllamaBaseURL)
	assert.Equal(t, "mistral", cfg.OllamaModel)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "https://app.example.com", cfg.AllowedOrigin)
}

func TestValidate(t *testing.T) {
	valid := Config{
		OllamaBaseURL:  DefaultOllamaBaseURL,
		OllamaModel:    DefaultOllamaModel,
		Listen:         DefaultListen,
		AllowedOrigin:  DefaultAllowedOrigin,
		RequestTimeout: time.Minute,
		HealthTimeout:  time.Second,
		MaxUploadBytes: 1024,
		LogLevel:       "info",
		LogFormat:      "text",
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"relative url", func(c *Config) { c.OllamaBaseURL = "localhost:11434" }},
		{"ftp scheme", func(c *Config) { c.OllamaBaseURL = "ftp://localhost" }},
		{"empty model", func(c *Config) { c.OllamaModel = "" }},
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative health timeout", func(c *Config) { c.HealthTimeout = -time.Second }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
