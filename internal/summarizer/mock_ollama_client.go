package summarizer

import (
	"context"
	"strings"
	"sync"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// MockOllamaClient is a mock implementation of OllamaClient for testing.
type MockOllamaClient struct {
	// Map of prompt snippets to mock summaries
	MockResponses map[string]string
	// Default response if no match is found
	DefaultResponse string
	// Available models to return from List()
	AvailableModels []string
	// GenerateErr and ListErr, when set, are returned instead of a response
	GenerateErr error
	ListErr     error
	// Delay is waited out (or the context expires) before Generate answers
	Delay time.Duration

	mu       sync.Mutex
	requests []ollama.GenerateRequest
}

// NewMockOllamaClient creates a new MockOllamaClient with default responses.
func NewMockOllamaClient() *MockOllamaClient {
	return &MockOllamaClient{
		MockResponses:   make(map[string]string),
		DefaultResponse: "This is a mock summary for testing purposes.",
		AvailableModels: []string{"orca-mini:latest"},
	}
}

// Generate implements OllamaClient.Generate for the mock.
func (m *MockOllamaClient) Generate(ctx context.Context, req *ollama.GenerateRequest, fn ollama.GenerateResponseFunc) error {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.GenerateErr != nil {
		return m.GenerateErr
	}

	// Find a matching mock response based on the prompt
	summary := m.DefaultResponse
	for key, response := range m.MockResponses {
		if strings.Contains(req.Prompt, key) {
			summary = response
			break
		}
	}

	return fn(ollama.GenerateResponse{
		Model:    req.Model,
		Response: summary,
		Done:     true,
	})
}

// List implements OllamaClient.List for the mock.
func (m *MockOllamaClient) List(ctx context.Context) (*ollama.ListResponse, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	models := make([]ollama.ListModelResponse, len(m.AvailableModels))
	for i, modelName := range m.AvailableModels {
		models[i] = ollama.ListModelResponse{
			Name:  modelName,
			Model: modelName,
		}
	}
	return &ollama.ListResponse{
		Models: models,
	}, nil
}

// Requests returns a copy of every generate request received so far.
func (m *MockOllamaClient) Requests() []ollama.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ollama.GenerateRequest(nil), m.requests...)
}
