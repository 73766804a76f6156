package driving

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// WatchFunc receives each watch-mode outcome. Exactly one of result and err is set.
type WatchFunc func(result *domain.AnalysisResult, err error)

// AnalysisService uploads file selections for analysis.
type AnalysisService interface {
	// Select loads the files at paths without uploading them.
	Select(ctx context.Context, paths []string) (*domain.FileSelection, error)

	// Analyze validates and uploads a selection, returning the analysis.
	// A call superseded by a newer Analyze returns domain.ErrRequestSuperseded.
	Analyze(ctx context.Context, selection *domain.FileSelection) (*domain.AnalysisResult, error)

	// AnalyzePaths loads and analyses the files at paths.
	AnalyzePaths(ctx context.Context, paths []string) (*domain.AnalysisResult, error)

	// Watch analyses paths once, then again whenever one of them changes.
	// It blocks until ctx is cancelled.
	Watch(ctx context.Context, paths []string, fn WatchFunc) error

	// Latest returns the most recent stored analysis.
	Latest(ctx context.Context) (*domain.AnalysisResult, error)

	// Get returns a stored analysis by ID.
	Get(ctx context.Context, id string) (*domain.AnalysisResult, error)

	// List returns up to limit stored analyses, newest first.
	List(ctx context.Context, limit int) ([]domain.AnalysisResult, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
