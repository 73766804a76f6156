package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refsheet-cli/internal/core/services"
)

// mockAnalysisService implements driving.AnalysisService for testing.
type mockAnalysisService struct {
	analyzePathsFunc func(ctx context.Context, paths []string) (*domain.AnalysisResult, error)
	watchFunc        func(ctx context.Context, paths []string, fn driving.WatchFunc) error
	getFunc          func(ctx context.Context, id string) (*domain.AnalysisResult, error)
	listFunc         func(ctx context.Context, limit int) ([]domain.AnalysisResult, error)
}

func (m *mockAnalysisService) Select(_ context.Context, _ []string) (*domain.FileSelection, error) {
	return &domain.FileSelection{}, nil
}

func (m *mockAnalysisService) Analyze(
	_ context.Context, _ *domain.FileSelection,
) (*domain.AnalysisResult, error) {
	return nil, domain.ErrNoFilesSelected
}

func (m *mockAnalysisService) AnalyzePaths(ctx context.Context, paths []string) (*domain.AnalysisResult, error) {
	if m.analyzePathsFunc != nil {
		return m.analyzePathsFunc(ctx, paths)
	}
	return nil, domain.ErrNoFilesSelected
}

func (m *mockAnalysisService) Watch(ctx context.Context, paths []string, fn driving.WatchFunc) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, paths, fn)
	}
	return nil
}

func (m *mockAnalysisService) Latest(_ context.Context) (*domain.AnalysisResult, error) {
	return nil, domain.ErrNotFound
}

func (m *mockAnalysisService) Get(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAnalysisService) List(ctx context.Context, limit int) ([]domain.AnalysisResult, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockAnalysisService) Ping(_ context.Context) error {
	return nil
}

// mockSheetService implements driving.SheetService for testing.
type mockSheetService struct {
	generateFunc       func(ctx context.Context, req driving.SheetRequest) (*domain.ReferenceSheet, error)
	getFunc            func(ctx context.Context, id string) (*domain.ReferenceSheet, error)
	listByAnalysisFunc func(ctx context.Context, analysisID string) ([]domain.ReferenceSheet, error)
	paginateFunc       func(ctx context.Context, sheetID string) (domain.PagePair, error)
}

func (m *mockSheetService) Generate(
	ctx context.Context, req driving.SheetRequest,
) (*domain.ReferenceSheet, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return nil, domain.ErrEmptyContent
}

func (m *mockSheetService) Latest(_ context.Context) (*domain.ReferenceSheet, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSheetService) Get(ctx context.Context, id string) (*domain.ReferenceSheet, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSheetService) ListByAnalysis(ctx context.Context, analysisID string) ([]domain.ReferenceSheet, error) {
	if m.listByAnalysisFunc != nil {
		return m.listByAnalysisFunc(ctx, analysisID)
	}
	return nil, nil
}

func (m *mockSheetService) Paginate(ctx context.Context, sheetID string) (domain.PagePair, error) {
	if m.paginateFunc != nil {
		return m.paginateFunc(ctx, sheetID)
	}
	return domain.PagePair{}, domain.ErrNotFound
}

// testServices holds the services injected for a test.
type testServices struct {
	analysis *mockAnalysisService
	sheet    *mockSheetService
	settings *services.SettingsService
}

// setupTestServices injects mocks, a real paginator and in-memory settings.
// Everything is reset when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		analysis: &mockAnalysisService{},
		sheet:    &mockSheetService{},
		settings: services.NewSettingsService(memory.NewConfigStore()),
	}
	SetBootstrap(nil)
	SetServices(&Services{
		Paginator: services.NewPaginator(),
		Analysis:  ts.analysis,
		Sheet:     ts.sheet,
		Settings:  ts.settings,
	})

	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
		resetFlags(rootCmd)
		clearContexts(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return ts
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// clearContexts drops the context cobra stored on each command during an
// earlier run. Cobra only hands the root context to subcommands whose own
// context is nil.
func clearContexts(cmd *cobra.Command) {
	cmd.SetContext(nil) //nolint:staticcheck // nil lets cobra inherit the root context
	for _, c := range cmd.Commands() {
		clearContexts(c)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	return executeWithInput(strings.NewReader(""), args...)
}

// executeWithInput runs the root command reading stdin from in.
func executeWithInput(in io.Reader, args ...string) (string, error) {
	return executeContext(context.Background(), in, args...)
}

// executeContext runs the root command under ctx.
func executeContext(ctx context.Context, in io.Reader, args ...string) (string, error) {
	clearContexts(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetIn(in)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
