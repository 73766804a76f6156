package driven

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// Backend is the external service that analyses files and generates sheets.
// Implementations report backend-side failures as *domain.BackendError and
// transport failures wrapped with domain.ErrTransport.
type Backend interface {
	// Analyze uploads the files and returns the backend's analysis.
	Analyze(ctx context.Context, files []domain.UploadFile) (*domain.AnalysisResult, error)

	// GenerateReferenceSheet builds a reference sheet from an analysis text.
	// The returned sheet has Text, ModelUsed and Quality populated; pagination
	// is left to the caller.
	GenerateReferenceSheet(
		ctx context.Context,
		analysis string,
		req domain.SheetRequirements,
	) (*domain.ReferenceSheet, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
