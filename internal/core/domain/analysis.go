package domain

import (
	"fmt"
	"strings"
	"time"
)

// NoResponseText is shown when the backend succeeded without any text.
const NoResponseText = "No response text."

// AnalysisResult is the backend's analysis of a file selection.
type AnalysisResult struct {
	// ID is assigned by the client when the result is stored.
	ID string `json:"id"`

	// Response is the analysis text.
	Response string `json:"response"`

	// TotalFiles is the number of files the backend analysed.
	TotalFiles int `json:"total_files"`

	// FilesAnalyzed lists the analysed file names.
	FilesAnalyzed []string `json:"files_analyzed"`

	// ModelUsed names the model that produced the response. Optional.
	ModelUsed string `json:"model_used,omitempty"`

	// CreatedAt is when the result was received.
	CreatedAt time.Time `json:"created_at"`
}

// DisplayText returns the text for the output region.
func (r *AnalysisResult) DisplayText() string {
	if strings.TrimSpace(r.Response) == "" {
		return NoResponseText
	}
	return r.Response
}

// Meta returns the metadata line shown under the analysis.
func (r *AnalysisResult) Meta() string {
	modelUsed := ""
	if r.ModelUsed != "" {
		modelUsed = " using " + r.ModelUsed
	}
	return fmt.Sprintf("Analyzed %d file(s)%s: %s", r.TotalFiles, modelUsed, strings.Join(r.FilesAnalyzed, ", "))
}
