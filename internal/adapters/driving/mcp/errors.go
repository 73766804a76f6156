// Package mcp provides an MCP (Model Context Protocol) server adapter for refsheet.
// It lets AI assistants split text into two printable pages, analyse practice
// files and generate reference sheets through the same services as the CLI.
package mcp

import (
	"errors"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// ErrMissingPaginator is returned when the paginator is not provided.
var ErrMissingPaginator = errors.New("mcp: paginator is required")

// ErrServiceUnavailable is returned by tools whose service was not wired.
var ErrServiceUnavailable = errors.New("mcp: service not available")

// toolError converts a service error into the message shown to the assistant.
func toolError(err error) error {
	return errors.New(domain.UserMessage(err))
}
