package mcp

import (
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Paginator splits text into two pages. Required.
	Paginator driving.Paginator

	// Analysis uploads practice files to the backend. Optional.
	Analysis driving.AnalysisService

	// Sheet generates reference sheets. Optional.
	Sheet driving.SheetService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Paginator == nil {
		return ErrMissingPaginator
	}
	return nil
}
