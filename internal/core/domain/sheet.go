package domain

import (
	"strconv"
	"strings"
	"time"
)

// SheetRequirements are the user's constraints for a generated reference sheet.
type SheetRequirements struct {
	EventName       string `json:"event_name"`
	Division        string `json:"division"`
	Difficulty      string `json:"difficulty"`
	TargetWordCount int    `json:"target_word_count"`

	// RequiredTopics and BannedTopics are free text, one topic per line or comma separated.
	RequiredTopics string `json:"required_topics"`
	BannedTopics   string `json:"banned_topics"`

	Notes string `json:"notes"`
}

// Merge returns r with empty fields filled from defaults.
func (r SheetRequirements) Merge(defaults SheetRequirements) SheetRequirements {
	out := r
	if out.EventName == "" {
		out.EventName = defaults.EventName
	}
	if out.Division == "" {
		out.Division = defaults.Division
	}
	if out.Difficulty == "" {
		out.Difficulty = defaults.Difficulty
	}
	if out.TargetWordCount <= 0 {
		out.TargetWordCount = defaults.TargetWordCount
	}
	if out.RequiredTopics == "" {
		out.RequiredTopics = defaults.RequiredTopics
	}
	if out.BannedTopics == "" {
		out.BannedTopics = defaults.BannedTopics
	}
	if out.Notes == "" {
		out.Notes = defaults.Notes
	}
	return out
}

// SheetQuality is the optional quality assessment returned with a sheet.
// The backend reports the score either as a number or as text.
type SheetQuality struct {
	Score   float64
	Label   string
	Numeric bool
}

// String renders the score for the metadata line.
func (q *SheetQuality) String() string {
	if q == nil {
		return ""
	}
	if q.Numeric {
		return strconv.FormatFloat(q.Score, 'f', -1, 64)
	}
	return q.Label
}

// ReferenceSheet is a generated reference sheet and its pagination.
type ReferenceSheet struct {
	ID         string        `json:"id"`
	AnalysisID string        `json:"analysis_id,omitempty"`
	Text       string        `json:"reference_sheet"`
	ModelUsed  string        `json:"model_used,omitempty"`
	Quality    *SheetQuality `json:"-"`
	Pages      PagePair      `json:"pages"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Meta returns the metadata line shown under the sheet pages.
func (s *ReferenceSheet) Meta() string {
	parts := []string{"Reference sheet generated"}
	if s.ModelUsed != "" {
		parts[0] += " using " + s.ModelUsed
	}
	if score := s.Quality.String(); score != "" {
		parts = append(parts, "quality score: "+score)
	}
	return strings.Join(parts, " | ")
}
