package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

func TestExtractAnalysisID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid analysis URI",
			uri:      "refsheet://analysis/an-123",
			expected: "an-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://analysis/an-123",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "refsheet://analysis/an-123/files",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractAnalysisID(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestHandleLatestAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("returns analysis text", func(t *testing.T) {
		analysis := &mockAnalysisService{result: &domain.AnalysisResult{ID: "an-1", Response: "Study enzymes."}}
		server := newTestServer(t, &Ports{Analysis: analysis})

		result, err := server.handleLatestAnalysis(ctx, readRequest(latestAnalysisURI))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "Study enzymes.", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("no analysis yet", func(t *testing.T) {
		server := newTestServer(t, &Ports{Analysis: &mockAnalysisService{}})

		_, err := server.handleLatestAnalysis(ctx, readRequest(latestAnalysisURI))
		assert.Error(t, err)
	})

	t.Run("no service", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, err := server.handleLatestAnalysis(ctx, readRequest(latestAnalysisURI))
		assert.Error(t, err)
	})
}

func TestHandleAnalysis(t *testing.T) {
	ctx := context.Background()
	analysis := &mockAnalysisService{result: &domain.AnalysisResult{ID: "an-1", Response: "Study enzymes."}}
	server := newTestServer(t, &Ports{Analysis: analysis})

	t.Run("by ID", func(t *testing.T) {
		result, err := server.handleAnalysis(ctx, readRequest("refsheet://analysis/an-1"))
		require.NoError(t, err)
		assert.Equal(t, "Study enzymes.", result.Contents[0].Text)
	})

	t.Run("unknown ID", func(t *testing.T) {
		_, err := server.handleAnalysis(ctx, readRequest("refsheet://analysis/missing"))
		assert.Error(t, err)
	})

	t.Run("latest through template", func(t *testing.T) {
		result, err := server.handleAnalysis(ctx, readRequest(latestAnalysisURI))
		require.NoError(t, err)
		assert.Equal(t, "Study enzymes.", result.Contents[0].Text)
	})
}

func TestHandleLatestSheet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns pages as JSON", func(t *testing.T) {
		sheets := &mockSheetService{sheet: &domain.ReferenceSheet{
			ID:    "sh-1",
			Pages: domain.PagePair{First: "A", Second: "B"},
		}}
		server := newTestServer(t, &Ports{Sheet: sheets})

		result, err := server.handleLatestSheet(ctx, readRequest(latestSheetURI))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.JSONEq(t, `{"page1":"A","page2":"B"}`, result.Contents[0].Text)
	})

	t.Run("no sheet yet", func(t *testing.T) {
		server := newTestServer(t, &Ports{Sheet: &mockSheetService{}})

		_, err := server.handleLatestSheet(ctx, readRequest(latestSheetURI))
		assert.Error(t, err)
	})
}
