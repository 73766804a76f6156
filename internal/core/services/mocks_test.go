package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
)

// mockBackend implements driven.Backend for testing.
type mockBackend struct {
	mu sync.Mutex

	analyzeFn func(ctx context.Context, files []domain.UploadFile) (*domain.AnalysisResult, error)
	sheetFn   func(ctx context.Context, analysis string, req domain.SheetRequirements) (*domain.ReferenceSheet, error)
	pingErr   error

	analyzeCalls int
	lastAnalysis string
	lastReq      domain.SheetRequirements
}

func (m *mockBackend) Analyze(ctx context.Context, files []domain.UploadFile) (*domain.AnalysisResult, error) {
	m.mu.Lock()
	m.analyzeCalls++
	fn := m.analyzeFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, files)
	}
	names := make([]string, len(files))
	for i := range files {
		names[i] = files[i].Name
	}
	return &domain.AnalysisResult{
		Response:      "analysis of files",
		TotalFiles:    len(files),
		FilesAnalyzed: names,
		ModelUsed:     "mock-model",
	}, nil
}

func (m *mockBackend) GenerateReferenceSheet(
	ctx context.Context,
	analysis string,
	req domain.SheetRequirements,
) (*domain.ReferenceSheet, error) {
	m.mu.Lock()
	m.lastAnalysis = analysis
	m.lastReq = req
	fn := m.sheetFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, analysis, req)
	}
	return &domain.ReferenceSheet{
		Text:      "Cells\n\nTissues\n\nOrgans",
		ModelUsed: "mock-model",
		Quality:   &domain.SheetQuality{Score: 7, Numeric: true},
	}, nil
}

func (m *mockBackend) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockBackend) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyzeCalls
}

// mockLoader implements driven.FileLoader with in-memory files.
type mockLoader struct {
	files map[string]domain.UploadFile
	err   error
}

func (m *mockLoader) Load(_ context.Context, paths []string) (*domain.FileSelection, error) {
	if m.err != nil {
		return nil, m.err
	}
	sel := &domain.FileSelection{}
	for _, p := range paths {
		f, ok := m.files[p]
		if !ok {
			f = domain.UploadFile{Name: p, Path: p, MIMEType: "text/plain", Size: 4, Content: []byte("text")}
		}
		sel.Files = append(sel.Files, f)
	}
	return sel, nil
}

// fakeWatcher implements driven.FileWatcher with test-controlled channels.
type fakeWatcher struct {
	events chan driven.FileEvent
	errs   chan error
	err    error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan driven.FileEvent),
		errs:   make(chan error),
	}
}

func (w *fakeWatcher) Watch(_ context.Context, _ []string) (<-chan driven.FileEvent, <-chan error, error) {
	if w.err != nil {
		return nil, nil, w.err
	}
	return w.events, w.errs, nil
}

// failingAnalysisStore fails every write.
type failingAnalysisStore struct {
	driven.AnalysisStore
}

func (failingAnalysisStore) Save(_ context.Context, _ domain.AnalysisResult) error {
	return errSaveFailed
}

var errSaveFailed = errors.New("disk full")
