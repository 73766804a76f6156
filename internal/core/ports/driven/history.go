package driven

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// AnalysisStore persists analysis results.
type AnalysisStore interface {
	// Save stores an analysis result. The ID must be set.
	Save(ctx context.Context, result domain.AnalysisResult) error

	// Get retrieves an analysis by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.AnalysisResult, error)

	// Latest returns the most recently created analysis.
	// Returns domain.ErrNotFound if the store is empty.
	Latest(ctx context.Context) (*domain.AnalysisResult, error)

	// List returns up to limit analyses, newest first.
	List(ctx context.Context, limit int) ([]domain.AnalysisResult, error)

	// Delete removes an analysis and its sheets.
	Delete(ctx context.Context, id string) error
}

// SheetStore persists generated reference sheets.
type SheetStore interface {
	// Save stores a reference sheet. The ID must be set.
	Save(ctx context.Context, sheet domain.ReferenceSheet) error

	// Get retrieves a sheet by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.ReferenceSheet, error)

	// Latest returns the most recently created sheet.
	// Returns domain.ErrNotFound if the store is empty.
	Latest(ctx context.Context) (*domain.ReferenceSheet, error)

	// ListByAnalysis returns the sheets generated from an analysis, newest first.
	ListByAnalysis(ctx context.Context, analysisID string) ([]domain.ReferenceSheet, error)
}
