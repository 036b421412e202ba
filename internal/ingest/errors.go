package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of an ingestion failure
type ErrorType int

const (
	// ErrTypeNetwork indicates the describer could not be reached
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request timed out
	ErrTypeTimeout
	// ErrTypeHTTP indicates a non-200 response
	ErrTypeHTTP
	// ErrTypeParse indicates the response or file is not a usable description
	ErrTypeParse
	// ErrTypeEmpty indicates the describer answered without a description
	ErrTypeEmpty
	// ErrTypeFile indicates a local file could not be read
	ErrTypeFile
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeEmpty:
		return "Empty Description"
	case ErrTypeFile:
		return "File Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// IngestError describes why no document could be produced.
type IngestError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the request may succeed if repeated
}

// Error implements the error interface
func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewNetworkError classifies a transport error.
func NewNetworkError(message string, err error) *IngestError {
	if errors.Is(err, context.Canceled) {
		return &IngestError{Type: ErrTypeNetwork, Message: message + " (cancelled)", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &IngestError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &IngestError{Type: ErrTypeTimeout, Message: message, Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &IngestError{
			Type:    ErrTypeNetwork,
			Message: fmt.Sprintf("%s: cannot resolve %s", message, dnsErr.Name),
			Err:     err,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &IngestError{
			Type:      ErrTypeNetwork,
			Message:   message + ": connection refused",
			Err:       err,
			Retryable: true,
		}
	}

	return &IngestError{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}
}

// NewHTTPError creates an HTTP-level error. Server errors are retryable.
func NewHTTPError(statusCode int, message string) *IngestError {
	return &IngestError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parse error.
func NewParseError(message string, err error) *IngestError {
	return &IngestError{Type: ErrTypeParse, Message: message, Err: err}
}

// NewEmptyError creates an error for a response without a description.
func NewEmptyError(message string) *IngestError {
	return &IngestError{Type: ErrTypeEmpty, Message: message}
}

// NewFileError creates a local file error.
func NewFileError(path string, err error) *IngestError {
	return &IngestError{Type: ErrTypeFile, Message: "cannot read " + path, Err: err}
}

func asIngestError(err error) (*IngestError, bool) {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network or timeout error
func IsNetworkError(err error) bool {
	ie, ok := asIngestError(err)
	return ok && (ie.Type == ErrTypeNetwork || ie.Type == ErrTypeTimeout)
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	ie, ok := asIngestError(err)
	return ok && ie.Type == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	ie, ok := asIngestError(err)
	return ok && ie.Type == ErrTypeParse
}

// IsEmptyError checks if an error is an empty-description error
func IsEmptyError(err error) bool {
	ie, ok := asIngestError(err)
	return ok && ie.Type == ErrTypeEmpty
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	ie, ok := asIngestError(err)
	return ok && ie.Retryable
}

// ShortMessage returns a concise message for a notice.
func ShortMessage(err error) string {
	ie, ok := asIngestError(err)
	if !ok {
		return err.Error()
	}

	switch ie.Type {
	case ErrTypeTimeout:
		return "describer not responding (timeout)"
	case ErrTypeNetwork:
		return "describer unreachable - is it running?"
	case ErrTypeHTTP:
		return fmt.Sprintf("describer error (HTTP %d)", ie.StatusCode)
	case ErrTypeParse:
		return "describer returned an unusable description"
	case ErrTypeEmpty:
		return "describer returned no description"
	default:
		return ie.Message
	}
}
