// Package summarizer asks an Ollama server for concise summaries of text.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	ollama "github.com/ollama/ollama/api"
)

// Generation parameters sent with every request.
const (
	Temperature = 0.3
	TopP        = 0.9
	MaxTokens   = 1000
)

const promptTemplate = "Please provide a concise summary of the following text. " +
	"Focus on the main points and key information:\n\n%s\n\nSummary:"

// BuildPrompt wraps text in the summarization instructions.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// Summarizer issues single, non-streaming generate calls against one model.
type Summarizer struct {
	client        OllamaClient
	model         string
	healthTimeout time.Duration
	log           *log.Logger
}

// New creates a Summarizer. healthTimeout bounds Ping and HasModel.
func New(client OllamaClient, model string, healthTimeout time.Duration, logger *log.Logger) *Summarizer {
	return &Summarizer{
		client:        client,
		model:         model,
		healthTimeout: healthTimeout,
		log:           logger.With("component", "summarizer"),
	}
}

// Model returns the model identifier requests are sent with.
func (s *Summarizer) Model() string {
	return s.model
}

// Summarize returns the backend's trimmed summary of text. A response
// without text yields "" rather than an error. Failures are *BackendError.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  s.model,
		Prompt: BuildPrompt(text),
		Stream: &stream,
		Options: map[string]any{
			"temperature": Temperature,
			"top_p":       TopP,
			"max_tokens":  MaxTokens,
			"num_predict": MaxTokens,
		},
	}

	start := time.Now()
	var summary strings.Builder
	chunks := 0
	err := s.client.Generate(ctx, req, func(resp ollama.GenerateResponse) error {
		chunks++
		summary.WriteString(resp.Response)
		return nil
	})
	if err == nil && chunks == 0 {
		err = errEmptyResponse
	}
	if err != nil {
		backendErr := classify(err)
		s.log.Error("generate failed",
			"model", s.model,
			"kind", backendErr.Kind,
			"duration", time.Since(start),
			"error", err)
		return "", backendErr
	}

	out := strings.TrimSpace(summary.String())
	s.log.Debug("generate finished",
		"model", s.model,
		"promptBytes", len(req.Prompt),
		"summaryBytes", len(out),
		"duration", time.Since(start))
	return out, nil
}

// Ping checks that the backend answers its model listing.
func (s *Summarizer) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	if _, err := s.client.List(ctx); err != nil {
		return err
	}
	return nil
}

// HasModel reports whether the configured model is installed on the backend.
// A bare model name matches its ":latest" tag.
func (s *Summarizer) HasModel(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.healthTimeout)
	defer cancel()

	response, err := s.client.List(ctx)
	if err != nil {
		return false, err
	}
	if response == nil {
		return false, errors.New("empty model list response")
	}
	for _, model := range response.Models {
		if model.Name == s.model || model.Name == s.model+":latest" {
			return true, nil
		}
	}
	return false, nil
}
