package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sebrandon1/pdf-summarizer/internal/server"
)

var (
	listenAddr    string
	allowedOrigin string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the summarization HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		start := time.Now()

		a.checkModel(cmd.Context())

		srv := server.New(server.Config{
			Listen:         a.cfg.Listen,
			AllowedOrigin:  a.cfg.AllowedOrigin,
			MaxUploadBytes: a.cfg.MaxUploadBytes,
			Model:          a.cfg.OllamaModel,
		}, a.service, a.summarizer, a.log)
		if err := srv.Start(); err != nil {
			return err
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		sig := <-c
		a.log.Info("shutdown signal received",
			"signal", sig.String(),
			"uptime", time.Since(start).Round(time.Second))

		return srv.Stop()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Address to listen on (overrides LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&allowedOrigin, "allowed-origin", "", "Origin allowed cross-origin access (overrides ALLOWED_ORIGIN)")
	rootCmd.AddCommand(serveCmd)
}

// checkModel warns when the configured model is not installed. It never fails:
// the backend may simply not be up yet.
func (a *app) checkModel(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	available, err := a.summarizer.HasModel(ctx)
	switch {
	case err != nil:
		a.log.Warn("could not reach Ollama to check model availability",
			"url", a.cfg.OllamaBaseURL,
			"model", a.cfg.OllamaModel,
			"error", err)
	case !available:
		a.log.Warn("model not found on Ollama server; pull it with `ollama pull`",
			"url", a.cfg.OllamaBaseURL,
			"model", a.cfg.OllamaModel)
	default:
		a.log.Info("model is available", "model", a.cfg.OllamaModel)
	}
}
