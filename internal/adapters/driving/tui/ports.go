// Package tui provides an interactive terminal user interface for refsheet.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis loads and analyses practice files.
	Analysis driving.AnalysisService

	// Sheet generates and paginates reference sheets.
	Sheet driving.SheetService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	analysis driving.AnalysisService,
	sheet driving.SheetService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Analysis: analysis,
		Sheet:    sheet,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Sheet == nil {
		return ErrMissingSheetService
	}
	return nil
}
