package tui

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("tui: analysis service is required")

// ErrMissingSheetService is returned when the sheet service is not provided.
var ErrMissingSheetService = errors.New("tui: sheet service is required")
