package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

func testAnalysis() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:            "a1",
		Response:      "The tests focus on the skeletal system.",
		TotalFiles:    2,
		FilesAnalyzed: []string{"test1.pdf", "notes.txt"},
		ModelUsed:     "gpt-4o",
	}
}

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze FILE...", analyzeCmd.Use)
	assert.NotNil(t, analyzeCmd.Flags().Lookup("json"))
	assert.NotNil(t, analyzeCmd.Flags().Lookup("watch"))
}

func TestAnalyzeCmd_RequiresFiles(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("analyze")

	assert.Error(t, err)
}

func TestAnalyzeCmd_PrintsAnalysis(t *testing.T) {
	ts := setupTestServices(t)
	var gotPaths []string
	ts.analysis.analyzePathsFunc = func(_ context.Context, paths []string) (*domain.AnalysisResult, error) {
		gotPaths = paths
		return testAnalysis(), nil
	}

	out, err := executeCommand("analyze", "test1.pdf", "notes.txt")

	require.NoError(t, err)
	assert.Equal(t, []string{"test1.pdf", "notes.txt"}, gotPaths)
	assert.Contains(t, out, "The tests focus on the skeletal system.")
	assert.Contains(t, out, "Analyzed 2 file(s) using gpt-4o: test1.pdf, notes.txt")
	assert.Contains(t, out, "Analysis ID: a1")
}

func TestAnalyzeCmd_EmptyResponse(t *testing.T) {
	ts := setupTestServices(t)
	ts.analysis.analyzePathsFunc = func(_ context.Context, _ []string) (*domain.AnalysisResult, error) {
		return &domain.AnalysisResult{ID: "a2", TotalFiles: 1, FilesAnalyzed: []string{"x.txt"}}, nil
	}

	out, err := executeCommand("analyze", "x.txt")

	require.NoError(t, err)
	assert.Contains(t, out, domain.NoResponseText)
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.analysis.analyzePathsFunc = func(_ context.Context, _ []string) (*domain.AnalysisResult, error) {
		return testAnalysis(), nil
	}

	out, err := executeCommand("analyze", "--json", "test1.pdf")
	require.NoError(t, err)

	var got analysisJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, 2, got.TotalFiles)
	assert.Equal(t, "gpt-4o", got.ModelUsed)
	assert.Contains(t, got.Meta, "Analyzed 2 file(s)")
}

func TestAnalyzeCmd_UserError(t *testing.T) {
	ts := setupTestServices(t)
	ts.analysis.analyzePathsFunc = func(_ context.Context, _ []string) (*domain.AnalysisResult, error) {
		return nil, domain.ErrNoFilesSelected
	}

	_, err := executeCommand("analyze", "empty.txt")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoFilesSelected))
	assert.Equal(t, "Please select at least one file.", err.Error())
}

func TestAnalyzeCmd_Watch(t *testing.T) {
	ts := setupTestServices(t)
	var gotPaths []string
	ts.analysis.watchFunc = func(_ context.Context, paths []string, fn driving.WatchFunc) error {
		gotPaths = paths
		fn(testAnalysis(), nil)
		fn(nil, errors.New("backend unavailable"))
		return nil
	}

	out, err := executeCommand("analyze", "--watch", "notes.txt")

	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, gotPaths)
	assert.Contains(t, out, "Watching for changes")
	assert.Contains(t, out, "Analysis ID: a1")
	assert.Contains(t, out, "Error: backend unavailable")
}

func TestAnalyzeCmd_NoService(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)

	_, err := executeCommand("analyze", "a.txt")

	assert.EqualError(t, err, "analysis service not configured")
}
