package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFilesSelected indicates a submission was attempted with nothing selected.
	ErrNoFilesSelected = errors.New("please select at least one file")

	// ErrEmptyContent indicates there is no text to build a sheet from or to paginate.
	ErrEmptyContent = errors.New("no content")

	// ErrTransport indicates the backend could not be reached.
	ErrTransport = errors.New("network error")

	// ErrRequestSuperseded indicates a newer request of the same kind replaced this one.
	// Callers should discard the result silently.
	ErrRequestSuperseded = errors.New("request superseded")

	// Selection Errors.

	// ErrUnsupportedFile indicates a file extension the backend does not accept.
	ErrUnsupportedFile = errors.New("unsupported file extension")

	// ErrFileTooLarge indicates a file or the selection exceeds a size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrTooManyFiles indicates the selection exceeds the file count limit.
	ErrTooManyFiles = errors.New("too many files")
)

// BackendError is a failure reported by the backend with a non-success status.
type BackendError struct {
	// StatusCode is the HTTP status returned by the backend.
	StatusCode int

	// Message is the backend's error field. Empty when it sent none.
	Message string

	// Details is the backend's details field rendered as text.
	// Structured details are pre-rendered as indented JSON.
	Details string
}

// Error renders the message the way it is shown to the user:
// the error line, then a blank line and the details when present.
func (e *BackendError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Request failed."
	}
	if strings.TrimSpace(e.Details) == "" {
		return msg
	}
	return fmt.Sprintf("%s\n\n%s", msg, e.Details)
}

// UserMessage converts an error into the text shown in an output region.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var backendErr *BackendError
	switch {
	case errors.As(err, &backendErr):
		return backendErr.Error()
	case errors.Is(err, ErrNoFilesSelected):
		return "Please select at least one file."
	case errors.Is(err, ErrTransport):
		return "Network error: " + transportCause(err)
	default:
		return err.Error()
	}
}

// transportCause strips the "network error: " prefix added when wrapping.
func transportCause(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ErrTransport.Error()+": "); i >= 0 {
		return msg[i+len(ErrTransport.Error())+2:]
	}
	return msg
}
