package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sebrandon1/pdf-summarizer/internal/config"
	"github.com/sebrandon1/pdf-summarizer/internal/gateway"
	"github.com/sebrandon1/pdf-summarizer/internal/logging"
	"github.com/sebrandon1/pdf-summarizer/internal/pdftext"
	"github.com/sebrandon1/pdf-summarizer/internal/summarizer"
)

var (
	envFile   string
	ollamaURL string
	modelName string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pdf-summarizer",
	Short: "Summarize PDF documents and text with a local Ollama model",
	Long: `pdf-summarizer extracts text from PDF files (or takes raw text) and asks a
locally running Ollama server for a concise summary.

Settings come from the environment (OLLAMA_BASE_URL, OLLAMA_MODEL, LISTEN_ADDR,
ALLOWED_ORIGIN, OLLAMA_TIMEOUT, ...), optionally from a .env file, and can be
overridden with flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL (overrides OLLAMA_BASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Ollama model to use (overrides OLLAMA_MODEL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides LOG_FORMAT)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the environment, applies any flags the user set and
// validates the combined result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("ollama-url") {
		cfg.OllamaBaseURL = ollamaURL
	}
	if flags.Changed("model") {
		cfg.OllamaModel = modelName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if flags.Lookup("listen") != nil && flags.Changed("listen") {
		cfg.Listen = listenAddr
	}
	if flags.Lookup("allowed-origin") != nil && flags.Changed("allowed-origin") {
		cfg.AllowedOrigin = allowedOrigin
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// app bundles the components every command needs.
type app struct {
	cfg        config.Config
	log        *log.Logger
	summarizer *summarizer.Summarizer
	service    *gateway.Service
}

func newApp(cfg config.Config, client summarizer.OllamaClient, logger *log.Logger) *app {
	sum := summarizer.New(client, cfg.OllamaModel, cfg.HealthTimeout, logger)
	return &app{
		cfg:        cfg,
		log:        logger,
		summarizer: sum,
		service:    gateway.New(pdftext.New(), sum, logger),
	}
}

// setup loads configuration and wires the real Ollama client.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	client, err := NewOllamaClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return newApp(cfg, client, logger), nil
}

// NewOllamaClient builds the Ollama API client described by cfg.
func NewOllamaClient(cfg config.Config) (summarizer.OllamaClient, error) {
	return summarizer.NewRealOllamaClient(cfg.OllamaBaseURL, cfg.RequestTimeout)
}
