package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net"

	ollama "github.com/ollama/ollama/api"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindTimeout means the call ran past the client timeout.
	KindTimeout ErrorKind = iota + 1
	// KindUnreachable means the backend could not be reached at all.
	KindUnreachable
	// KindStatus means the backend answered with a non-success status.
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindStatus:
		return "status"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// BackendError is returned by Summarize for every failed generate call.
type BackendError struct {
	Kind ErrorKind
	// StatusCode and Message are set for KindStatus.
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "Ollama request timed out. The model might be processing a large document. " +
			"Try with a smaller text or a faster model like 'orca-mini'."
	case KindUnreachable:
		return fmt.Sprintf("Failed to connect to Ollama: %v", e.Err)
	default:
		if e.StatusCode == 0 {
			return "Ollama API error: " + e.Message
		}
		return fmt.Sprintf("Ollama API error: %d - %s", e.StatusCode, e.Message)
	}
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

const emptyResponseMessage = "empty response from backend"

// errEmptyResponse is reported when a generate call ends without a single response chunk.
var errEmptyResponse = errors.New(emptyResponseMessage)

// classify turns an error from the Ollama client into a *BackendError.
func classify(err error) *BackendError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &BackendError{Kind: KindTimeout, Err: err}
	}

	var statusErr ollama.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		return &BackendError{Kind: KindStatus, StatusCode: statusErr.StatusCode, Message: msg, Err: err}
	}

	var authErr ollama.AuthorizationError
	if errors.As(err, &authErr) {
		return &BackendError{Kind: KindStatus, StatusCode: authErr.StatusCode, Message: authErr.Status, Err: err}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.As(err, &netErr) {
		return &BackendError{Kind: KindUnreachable, Err: err}
	}

	// The client reports in-band {"error": "..."} bodies on a 200 as plain errors.
	return &BackendError{Kind: KindStatus, Message: err.Error(), Err: err}
}
