package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaClient defines the subset of the Ollama API the summarizer uses.
// This allows us to mock the client for testing purposes.
type OllamaClient interface {
	Generate(ctx context.Context, req *ollama.GenerateRequest, fn ollama.GenerateResponseFunc) error
	List(ctx context.Context) (*ollama.ListResponse, error)
}

// RealOllamaClient is a wrapper around the actual Ollama client that implements OllamaClient.
type RealOllamaClient struct {
	client *ollama.Client
}

// NewRealOllamaClient creates a client for the Ollama server at baseURL.
// Every call through it is bounded by timeout.
func NewRealOllamaClient(baseURL string, timeout time.Duration) (*RealOllamaClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url: %w", err)
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: errorBodyTransport{base: http.DefaultTransport},
	}
	return &RealOllamaClient{client: ollama.NewClient(u, httpClient)}, nil
}

// Generate implements OllamaClient.Generate
func (r *RealOllamaClient) Generate(ctx context.Context, req *ollama.GenerateRequest, fn ollama.GenerateResponseFunc) error {
	return r.client.Generate(ctx, req, fn)
}

// List implements OllamaClient.List
func (r *RealOllamaClient) List(ctx context.Context) (*ollama.ListResponse, error) {
	return r.client.List(ctx)
}

// errorBodyTransport gives error responses with an empty body a JSON error
// line. The Ollama client only builds a StatusError while reading body lines,
// so without one a 502 from a proxy would look like an empty success.
type errorBodyTransport struct {
	base http.RoundTripper
}

func (t errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body, _ = json.Marshal(map[string]string{"error": emptyResponseMessage})
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Del("Content-Length")
	return resp, nil
}
