package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// SplitInput is the input schema for the split_into_two_pages tool.
type SplitInput struct {
	Text string `json:"text" jsonschema:"the text to split into two pages"`
}

// PagesOutput is the two-page result shared by the split and sheet tools.
type PagesOutput struct {
	Page1         string `json:"page1"`
	Page2         string `json:"page2"`
	HasSecondPage bool   `json:"has_second_page"`
}

// AnalyzeInput is the input schema for the analyze_files tool.
type AnalyzeInput struct {
	Paths []string `json:"paths" jsonschema:"local paths of the practice files to analyse"`
}

// AnalysisOutput is the output schema for the analyze_files tool.
type AnalysisOutput struct {
	ID            string   `json:"id"`
	Response      string   `json:"response"`
	TotalFiles    int      `json:"total_files"`
	FilesAnalyzed []string `json:"files_analyzed"`
	ModelUsed     string   `json:"model_used,omitempty"`
	Meta          string   `json:"meta"`
}

// SheetInput is the input schema for the generate_reference_sheet tool.
type SheetInput struct {
	AnalysisID      string `json:"analysis_id,omitempty" jsonschema:"ID of a stored analysis (default: the latest)"`
	AnalysisText    string `json:"analysis_text,omitempty" jsonschema:"analysis text to use instead of a stored analysis"`
	EventName       string `json:"event_name,omitempty" jsonschema:"competition event name"`
	Division        string `json:"division,omitempty" jsonschema:"competition division, e.g. B or C"`
	Difficulty      string `json:"difficulty,omitempty" jsonschema:"easy, medium or hard"`
	TargetWordCount int    `json:"target_word_count,omitempty" jsonschema:"approximate length of the sheet in words"`
	RequiredTopics  string `json:"required_topics,omitempty" jsonschema:"topics that must be covered"`
	BannedTopics    string `json:"banned_topics,omitempty" jsonschema:"topics to leave out"`
	Notes           string `json:"notes,omitempty" jsonschema:"free-form instructions for the sheet"`
}

// SheetOutput is the output schema for the generate_reference_sheet tool.
type SheetOutput struct {
	ID             string      `json:"id"`
	AnalysisID     string      `json:"analysis_id,omitempty"`
	ReferenceSheet string      `json:"reference_sheet"`
	ModelUsed      string      `json:"model_used,omitempty"`
	QualityScore   string      `json:"quality_score,omitempty"`
	Pages          PagesOutput `json:"pages"`
	Meta           string      `json:"meta"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "split_into_two_pages",
		Description: "Split text into two printable pages at a paragraph boundary, balanced by character count",
	}, s.handleSplit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_files",
		Description: "Upload local practice files to the analysis backend and return its analysis",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_reference_sheet",
		Description: "Generate a two-page reference sheet from an analysis",
	}, s.handleGenerateSheet)
}

// handleSplit handles the split_into_two_pages tool invocation.
func (s *Server) handleSplit(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SplitInput,
) (*mcp.CallToolResult, PagesOutput, error) {
	return nil, pagesOutput(s.ports.Paginator.Split(input.Text)), nil
}

// handleAnalyze handles the analyze_files tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	if s.ports.Analysis == nil {
		return nil, AnalysisOutput{}, ErrServiceUnavailable
	}

	result, err := s.ports.Analysis.AnalyzePaths(ctx, input.Paths)
	if err != nil {
		return nil, AnalysisOutput{}, toolError(err)
	}

	return nil, AnalysisOutput{
		ID:            result.ID,
		Response:      result.DisplayText(),
		TotalFiles:    result.TotalFiles,
		FilesAnalyzed: result.FilesAnalyzed,
		ModelUsed:     result.ModelUsed,
		Meta:          result.Meta(),
	}, nil
}

// handleGenerateSheet handles the generate_reference_sheet tool invocation.
func (s *Server) handleGenerateSheet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SheetInput,
) (*mcp.CallToolResult, SheetOutput, error) {
	if s.ports.Sheet == nil {
		return nil, SheetOutput{}, ErrServiceUnavailable
	}

	sheet, err := s.ports.Sheet.Generate(ctx, driving.SheetRequest{
		AnalysisID:   input.AnalysisID,
		AnalysisText: input.AnalysisText,
		Requirements: domain.SheetRequirements{
			EventName:       input.EventName,
			Division:        input.Division,
			Difficulty:      input.Difficulty,
			TargetWordCount: input.TargetWordCount,
			RequiredTopics:  input.RequiredTopics,
			BannedTopics:    input.BannedTopics,
			Notes:           input.Notes,
		},
	})
	if err != nil {
		return nil, SheetOutput{}, toolError(err)
	}

	return nil, SheetOutput{
		ID:             sheet.ID,
		AnalysisID:     sheet.AnalysisID,
		ReferenceSheet: sheet.Text,
		ModelUsed:      sheet.ModelUsed,
		QualityScore:   sheet.Quality.String(),
		Pages:          pagesOutput(sheet.Pages),
		Meta:           sheet.Meta(),
	}, nil
}

func pagesOutput(p domain.PagePair) PagesOutput {
	return PagesOutput{
		Page1:         p.First,
		Page2:         p.Second,
		HasSecondPage: p.HasSecondPage(),
	}
}
