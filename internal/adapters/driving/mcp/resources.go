package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for refsheet resources.
	uriScheme = "refsheet://"

	latestAnalysisURI = uriScheme + "analysis/latest"
	latestSheetURI    = uriScheme + "sheet/latest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         latestAnalysisURI,
		Name:        "latest-analysis",
		Description: "Text of the most recent practice file analysis",
		MIMEType:    "text/plain",
	}, s.handleLatestAnalysis)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "analysis/{analysisId}",
		Name:        "analysis",
		Description: "Text of a stored analysis",
		MIMEType:    "text/plain",
	}, s.handleAnalysis)

	s.server.AddResource(&mcp.Resource{
		URI:         latestSheetURI,
		Name:        "latest-sheet",
		Description: "Two pages of the most recent reference sheet",
		MIMEType:    "application/json",
	}, s.handleLatestSheet)
}

// handleLatestAnalysis returns the latest analysis text.
func (s *Server) handleLatestAnalysis(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Analysis == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Analysis.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest analysis: %w", err)
	}

	return textResource(req.Params.URI, result.DisplayText()), nil
}

// handleAnalysis returns a stored analysis by ID.
func (s *Server) handleAnalysis(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if req.Params.URI == latestAnalysisURI {
		return s.handleLatestAnalysis(ctx, req)
	}
	if s.ports.Analysis == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractAnalysisID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Analysis.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}

	return textResource(req.Params.URI, result.DisplayText()), nil
}

// handleLatestSheet returns the pages of the latest sheet as JSON.
func (s *Server) handleLatestSheet(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sheet == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sheet, err := s.ports.Sheet.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest sheet: %w", err)
	}

	data, err := json.MarshalIndent(sheet.Pages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pages: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}
}

// extractAnalysisID extracts the ID from a URI like refsheet://analysis/{analysisId}.
func extractAnalysisID(uri string) string {
	const prefix = uriScheme + "analysis/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
