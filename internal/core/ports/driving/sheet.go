package driving

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// SheetRequest identifies the analysis a sheet is built from.
// AnalysisText wins over AnalysisID when both are set.
type SheetRequest struct {
	AnalysisID   string
	AnalysisText string
	Requirements domain.SheetRequirements
}

// SheetService generates and paginates reference sheets.
type SheetService interface {
	// Generate requests a sheet from the backend and splits it into two pages.
	// A call superseded by a newer Generate returns domain.ErrRequestSuperseded.
	Generate(ctx context.Context, req SheetRequest) (*domain.ReferenceSheet, error)

	// Latest returns the most recent stored sheet.
	Latest(ctx context.Context) (*domain.ReferenceSheet, error)

	// Get returns a stored sheet by ID.
	Get(ctx context.Context, id string) (*domain.ReferenceSheet, error)

	// ListByAnalysis returns the stored sheets for an analysis.
	ListByAnalysis(ctx context.Context, analysisID string) ([]domain.ReferenceSheet, error)

	// Paginate splits a stored sheet's text again, e.g. after the pagination rules changed.
	// An empty sheetID selects the latest sheet.
	Paginate(ctx context.Context, sheetID string) (domain.PagePair, error)
}
