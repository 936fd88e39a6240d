// Package server exposes the summarizer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sebrandon1/pdf-summarizer/internal/gateway"
)

const shutdownTimeout = 5 * time.Second

// Service is the summarization pipeline behind the upload and text endpoints.
type Service interface {
	FromPDF(ctx context.Context, filename string, data []byte) (gateway.Result, error)
	FromText(ctx context.Context, text string) (gateway.Result, error)
}

// Pinger reports whether the inference backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds HTTP server configuration
type Config struct {
	Listen         string // Address to listen on (e.g. ":8000")
	AllowedOrigin  string // The one origin allowed cross-origin access
	MaxUploadBytes int64  // Upper bound on request bodies
	Model          string // Reported by the root endpoint
}

// Server is the HTTP front of the summarizer.
type Server struct {
	cfg     Config
	service Service
	backend Pinger
	log     *log.Logger

	server *http.Server
	addr   string
	wg     sync.WaitGroup
}

// New creates a server; call Start to begin listening.
func New(cfg Config, service Service, backend Pinger, logger *log.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		backend: backend,
		log:     logger.With("component", "http"),
	}

	// Summaries can take minutes on slow hardware, so there is no write timeout.
	s.server = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /upload-pdf", s.handleUploadPDF)
	mux.HandleFunc("POST /summarize-text", s.handleSummarizeText)

	// request id -> logging -> CORS -> strip headers
	return s.withRequestID(s.logRequest(s.cors(stripHeaders(mux))))
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}

	s.addr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.log.Info("server starting", "addr", s.addr, "allowedOrigin", s.cfg.AllowedOrigin)

		err := s.server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Error("shutdown error", "error", err)
		return err
	}

	s.wg.Wait()
	s.log.Info("server stopped")
	return nil
}
