// Package gateway turns an uploaded document or raw text into a summary result.
package gateway

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// ErrNoText is returned when a PDF parses but holds no extractable text.
var ErrNoText = &InputError{Message: "No text found in PDF"}

// InputError is a problem with what the caller sent.
type InputError struct {
	Message string
	Err     error
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Extractor produces plain text from PDF bytes.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Summarizer produces a summary of non-empty text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Result is returned by both entry points.
type Result struct {
	Summary        string `json:"summary"`
	OriginalLength int    `json:"original_length"`
	SummaryLength  int    `json:"summary_length"`
}

// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	extractor  Extractor
	summarizer Summarizer
	log        *log.Logger
}

// New creates a Service.
func New(extractor Extractor, summarizer Summarizer, logger *log.Logger) *Service {
	return &Service{
		extractor:  extractor,
		summarizer: summarizer,
		log:        logger.With("component", "gateway"),
	}
}

// FromPDF summarizes the text of a PDF upload.
func (s *Service) FromPDF(ctx context.Context, filename string, data []byte) (Result, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return Result{}, &InputError{Message: "Only PDF files are allowed"}
	}
	if len(data) == 0 {
		return Result{}, &InputError{Message: "Empty file"}
	}

	text, err := s.extractor.Extract(data)
	if err != nil {
		s.log.Warn("pdf extraction failed", "filename", filename, "bytes", len(data), "error", err)
		return Result{}, &InputError{Message: "Error extracting text from PDF: " + err.Error(), Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrNoText
	}

	s.log.Info("pdf extracted", "filename", filename, "bytes", len(data), "chars", utf8.RuneCountInString(text))
	return s.summarize(ctx, text)
}

// FromText summarizes raw text. Surrounding whitespace is dropped first.
func (s *Service) FromText(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, &InputError{Message: "Text cannot be empty"}
	}
	return s.summarize(ctx, text)
}

// summarize runs the backend call on a context that outlives client cancellation,
// so a disconnected client does not abort an in-flight generation.
func (s *Service) summarize(ctx context.Context, text string) (Result, error) {
	summary, err := s.summarizer.Summarize(context.WithoutCancel(ctx), text)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Summary:        summary,
		OriginalLength: utf8.RuneCountInString(text),
		SummaryLength:  utf8.RuneCountInString(summary),
	}, nil
}

// IsInputError reports whether err was caused by the caller's input.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}
