package tui

import (
	"context"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// MockAnalysisService implements driving.AnalysisService for testing.
type MockAnalysisService struct {
	SelectFunc  func(ctx context.Context, paths []string) (*domain.FileSelection, error)
	AnalyzeFunc func(ctx context.Context, sel *domain.FileSelection) (*domain.AnalysisResult, error)
}

func (m *MockAnalysisService) Select(ctx context.Context, paths []string) (*domain.FileSelection, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, paths)
	}
	files := make([]domain.UploadFile, len(paths))
	for i, p := range paths {
		files[i] = domain.UploadFile{Name: p, Path: p, Size: 1}
	}
	return &domain.FileSelection{Files: files}, nil
}

func (m *MockAnalysisService) Analyze(
	ctx context.Context, sel *domain.FileSelection,
) (*domain.AnalysisResult, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, sel)
	}
	return &domain.AnalysisResult{ID: "a1", Response: "analysis", TotalFiles: sel.Len()}, nil
}

func (m *MockAnalysisService) AnalyzePaths(ctx context.Context, paths []string) (*domain.AnalysisResult, error) {
	sel, err := m.Select(ctx, paths)
	if err != nil {
		return nil, err
	}
	return m.Analyze(ctx, sel)
}

func (m *MockAnalysisService) Watch(_ context.Context, _ []string, _ driving.WatchFunc) error {
	return nil
}

func (m *MockAnalysisService) Latest(_ context.Context) (*domain.AnalysisResult, error) {
	return nil, domain.ErrNotFound
}

func (m *MockAnalysisService) Get(_ context.Context, _ string) (*domain.AnalysisResult, error) {
	return nil, domain.ErrNotFound
}

func (m *MockAnalysisService) List(_ context.Context, _ int) ([]domain.AnalysisResult, error) {
	return nil, nil
}

func (m *MockAnalysisService) Ping(_ context.Context) error {
	return nil
}

// MockSheetService implements driving.SheetService for testing.
type MockSheetService struct {
	GenerateFunc func(ctx context.Context, req driving.SheetRequest) (*domain.ReferenceSheet, error)
	LatestFunc   func(ctx context.Context) (*domain.ReferenceSheet, error)
}

func (m *MockSheetService) Generate(
	ctx context.Context, req driving.SheetRequest,
) (*domain.ReferenceSheet, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &domain.ReferenceSheet{
		ID:         "s1",
		AnalysisID: req.AnalysisID,
		Text:       "one\n\ntwo",
		Pages:      domain.PagePair{First: "one", Second: "two"},
	}, nil
}

func (m *MockSheetService) Latest(ctx context.Context) (*domain.ReferenceSheet, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *MockSheetService) Get(_ context.Context, _ string) (*domain.ReferenceSheet, error) {
	return nil, domain.ErrNotFound
}

func (m *MockSheetService) ListByAnalysis(_ context.Context, _ string) ([]domain.ReferenceSheet, error) {
	return nil, nil
}

func (m *MockSheetService) Paginate(_ context.Context, _ string) (domain.PagePair, error) {
	return domain.PagePair{First: "one", Second: "two"}, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings domain.AppSettings
	SetFunc  func(key, value string) error
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = *settings
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(key, value)
	}
	return nil
}

func (m *MockSettingsService) Keys() []string {
	return []string{domain.KeyBackendURL, domain.KeySheetDivision}
}

func (m *MockSettingsService) Validate() error {
	return nil
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func newTestPorts() *Ports {
	return NewPorts(
		&MockAnalysisService{},
		&MockSheetService{},
		&MockSettingsService{Settings: domain.DefaultAppSettings()},
	)
}
