package mcp

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// mockPaginator puts the whole text on the first page.
type mockPaginator struct{}

func (m *mockPaginator) Split(text string) domain.PagePair {
	return domain.PagePair{First: text}
}

var _ driving.Paginator = (*mockPaginator)(nil)

type mockAnalysisService struct {
	result    *domain.AnalysisResult
	err       error
	lastPaths []string
}

func (m *mockAnalysisService) Select(_ context.Context, _ []string) (*domain.FileSelection, error) {
	return &domain.FileSelection{}, nil
}

func (m *mockAnalysisService) Analyze(_ context.Context, _ *domain.FileSelection) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

func (m *mockAnalysisService) AnalyzePaths(_ context.Context, paths []string) (*domain.AnalysisResult, error) {
	m.lastPaths = paths
	return m.result, m.err
}

func (m *mockAnalysisService) Watch(_ context.Context, _ []string, _ driving.WatchFunc) error {
	return nil
}

func (m *mockAnalysisService) Latest(_ context.Context) (*domain.AnalysisResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return nil, domain.ErrNotFound
	}
	return m.result, nil
}

func (m *mockAnalysisService) Get(_ context.Context, id string) (*domain.AnalysisResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil || m.result.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.result, nil
}

func (m *mockAnalysisService) List(_ context.Context, _ int) ([]domain.AnalysisResult, error) {
	if m.result == nil {
		return nil, m.err
	}
	return []domain.AnalysisResult{*m.result}, m.err
}

func (m *mockAnalysisService) Ping(_ context.Context) error {
	return m.err
}

var _ driving.AnalysisService = (*mockAnalysisService)(nil)

type mockSheetService struct {
	sheet   *domain.ReferenceSheet
	err     error
	lastReq driving.SheetRequest
}

func (m *mockSheetService) Generate(_ context.Context, req driving.SheetRequest) (*domain.ReferenceSheet, error) {
	m.lastReq = req
	return m.sheet, m.err
}

func (m *mockSheetService) Latest(_ context.Context) (*domain.ReferenceSheet, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.sheet == nil {
		return nil, domain.ErrNotFound
	}
	return m.sheet, nil
}

func (m *mockSheetService) Get(ctx context.Context, _ string) (*domain.ReferenceSheet, error) {
	return m.Latest(ctx)
}

func (m *mockSheetService) ListByAnalysis(_ context.Context, _ string) ([]domain.ReferenceSheet, error) {
	return nil, m.err
}

func (m *mockSheetService) Paginate(_ context.Context, _ string) (domain.PagePair, error) {
	if m.sheet == nil {
		return domain.PagePair{}, domain.ErrNotFound
	}
	return m.sheet.Pages, m.err
}

var _ driving.SheetService = (*mockSheetService)(nil)
