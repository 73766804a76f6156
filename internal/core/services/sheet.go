package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// Ensure SheetService implements the interface.
var _ driving.SheetService = (*SheetService)(nil)

// SheetService generates reference sheets and splits them into two pages.
type SheetService struct {
	backend   driven.Backend
	analyses  driven.AnalysisStore
	sheets    driven.SheetStore
	paginator driving.Paginator
	settings  driving.SettingsService
	guard     *RequestGuard
	now       func() time.Time
}

// NewSheetService creates a new sheet service.
// Stores are optional; a nil paginator uses the default Paginator.
func NewSheetService(
	backend driven.Backend,
	analyses driven.AnalysisStore,
	sheets driven.SheetStore,
	paginator driving.Paginator,
) *SheetService {
	if paginator == nil {
		paginator = NewPaginator()
	}
	return &SheetService{
		backend:   backend,
		analyses:  analyses,
		sheets:    sheets,
		paginator: paginator,
		guard:     NewRequestGuard(),
		now:       time.Now,
	}
}

// SetSettingsService sets the settings source for default requirements.
func (s *SheetService) SetSettingsService(settings driving.SettingsService) {
	s.settings = settings
}

// Generate requests a sheet for the analysis and paginates it.
func (s *SheetService) Generate(ctx context.Context, req driving.SheetRequest) (*domain.ReferenceSheet, error) {
	analysisID, analysisText, err := s.resolveAnalysis(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.backend == nil {
		return nil, errors.New("backend not configured")
	}

	requirements := req.Requirements.Merge(s.defaultRequirements())

	reqCtx, ticket := s.guard.Begin(ctx)
	defer ticket.Done()

	logger.Info("Generating reference sheet (event=%q division=%q words=%d)",
		requirements.EventName, requirements.Division, requirements.TargetWordCount)
	sheet, err := s.backend.GenerateReferenceSheet(reqCtx, analysisText, requirements)
	if !ticket.Current() {
		logger.Debug("Discarding superseded sheet request %d", ticket.Seq())
		return nil, domain.ErrRequestSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("generate sheet: %w", err)
	}
	if strings.TrimSpace(sheet.Text) == "" {
		return nil, fmt.Errorf("%w: backend returned an empty reference sheet", domain.ErrEmptyContent)
	}

	sheet.ID = uuid.New().String()
	sheet.AnalysisID = analysisID
	sheet.CreatedAt = s.now()
	sheet.Pages = s.paginator.Split(sheet.Text)
	logger.Debug("Sheet %s paginated (second page: %t)", sheet.ID, sheet.Pages.HasSecondPage())

	if s.sheets != nil {
		if err := s.sheets.Save(ctx, *sheet); err != nil {
			logger.Warn("Failed to save reference sheet to history: %v", err)
		}
	}

	return sheet, nil
}

// resolveAnalysis picks the analysis text: explicit text, then ID, then the latest stored.
func (s *SheetService) resolveAnalysis(ctx context.Context, req driving.SheetRequest) (string, string, error) {
	if strings.TrimSpace(req.AnalysisText) != "" {
		return req.AnalysisID, req.AnalysisText, nil
	}

	if s.analyses == nil {
		return "", "", fmt.Errorf("%w: no analysis to build a sheet from", domain.ErrEmptyContent)
	}

	var (
		analysis *domain.AnalysisResult
		err      error
	)
	if req.AnalysisID != "" {
		analysis, err = s.analyses.Get(ctx, req.AnalysisID)
	} else {
		analysis, err = s.analyses.Latest(ctx)
	}
	if errors.Is(err, domain.ErrNotFound) && req.AnalysisID == "" {
		return "", "", fmt.Errorf("%w: no analysis to build a sheet from", domain.ErrEmptyContent)
	}
	if err != nil {
		return "", "", fmt.Errorf("get analysis: %w", err)
	}
	if strings.TrimSpace(analysis.Response) == "" {
		return "", "", fmt.Errorf("%w: analysis %s has no text", domain.ErrEmptyContent, analysis.ID)
	}

	return analysis.ID, analysis.Response, nil
}

// defaultRequirements returns the configured defaults, or the built-in ones.
func (s *SheetService) defaultRequirements() domain.SheetRequirements {
	if s.settings == nil {
		return domain.DefaultSheetRequirements()
	}
	settings, err := s.settings.Get()
	if err != nil {
		logger.Warn("Falling back to default sheet requirements: %v", err)
		return domain.DefaultSheetRequirements()
	}
	return settings.Sheet
}

// Latest returns the most recent stored sheet.
func (s *SheetService) Latest(ctx context.Context) (*domain.ReferenceSheet, error) {
	if s.sheets == nil {
		return nil, errHistoryDisabled
	}
	return s.sheets.Latest(ctx)
}

// Get returns a stored sheet by ID.
func (s *SheetService) Get(ctx context.Context, id string) (*domain.ReferenceSheet, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.sheets == nil {
		return nil, errHistoryDisabled
	}
	return s.sheets.Get(ctx, id)
}

// ListByAnalysis returns the stored sheets for an analysis.
func (s *SheetService) ListByAnalysis(ctx context.Context, analysisID string) ([]domain.ReferenceSheet, error) {
	if s.sheets == nil {
		return nil, nil
	}
	return s.sheets.ListByAnalysis(ctx, analysisID)
}

// Paginate splits a stored sheet's text again. An empty sheetID selects the latest sheet.
func (s *SheetService) Paginate(ctx context.Context, sheetID string) (domain.PagePair, error) {
	var (
		sheet *domain.ReferenceSheet
		err   error
	)
	if sheetID == "" {
		sheet, err = s.Latest(ctx)
	} else {
		sheet, err = s.Get(ctx, sheetID)
	}
	if err != nil {
		return domain.PagePair{}, err
	}
	return s.paginator.Split(sheet.Text), nil
}
