package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Default settings values.
const (
	DefaultBackendURL     = "http://localhost:5000"
	DefaultBackendTimeout = 120 * time.Second
	DefaultHistoryLimit   = 50
)

// Dotted setting keys.
const (
	KeyBackendURL      = "backend.url"
	KeyBackendTimeout  = "backend.timeout"
	KeySheetEvent      = "sheet.event_name"
	KeySheetDivision   = "sheet.division"
	KeySheetDifficulty = "sheet.difficulty"
	KeySheetWords      = "sheet.target_word_count"
	KeySheetRequired   = "sheet.required_topics"
	KeySheetBanned     = "sheet.banned_topics"
	KeySheetNotes      = "sheet.notes"
	KeyHistoryEnabled  = "history.enabled"
	KeyHistoryLimit    = "history.limit"
)

// AppSettings holds all user-configurable application settings.
type AppSettings struct {
	Backend BackendSettings
	Sheet   SheetRequirements
	History HistorySettings
}

// BackendSettings configures the analysis backend connection.
type BackendSettings struct {
	// BaseURL is the backend root, e.g. http://localhost:5000.
	BaseURL string

	// Timeout bounds a single request.
	Timeout time.Duration
}

// Validate checks the backend settings are usable.
func (b BackendSettings) Validate() error {
	if b.BaseURL == "" {
		return fmt.Errorf("%w: backend URL is required", ErrInvalidInput)
	}
	u, err := url.Parse(b.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend URL %q must be absolute", ErrInvalidInput, b.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: backend URL scheme %q is not http or https", ErrInvalidInput, u.Scheme)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidInput)
	}
	return nil
}

// HistorySettings configures the local history of analyses and sheets.
type HistorySettings struct {
	// Enabled stores results in the SQLite history when true.
	Enabled bool

	// Limit is the default number of entries listed.
	Limit int
}

// DefaultSheetRequirements returns the requirements used when the user gives none.
func DefaultSheetRequirements() SheetRequirements {
	return SheetRequirements{
		Division:        "C",
		Difficulty:      "medium",
		TargetWordCount: 1200,
	}
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL: DefaultBackendURL,
			Timeout: DefaultBackendTimeout,
		},
		Sheet: DefaultSheetRequirements(),
		History: HistorySettings{
			Enabled: true,
			Limit:   DefaultHistoryLimit,
		},
	}
}

// Value returns the display form of the setting at key.
// The second result is false for unknown keys.
func (s AppSettings) Value(key string) (string, bool) {
	switch key {
	case KeyBackendURL:
		return s.Backend.BaseURL, true
	case KeyBackendTimeout:
		return s.Backend.Timeout.String(), true
	case KeySheetEvent:
		return s.Sheet.EventName, true
	case KeySheetDivision:
		return s.Sheet.Division, true
	case KeySheetDifficulty:
		return s.Sheet.Difficulty, true
	case KeySheetWords:
		return strconv.Itoa(s.Sheet.TargetWordCount), true
	case KeySheetRequired:
		return s.Sheet.RequiredTopics, true
	case KeySheetBanned:
		return s.Sheet.BannedTopics, true
	case KeySheetNotes:
		return s.Sheet.Notes, true
	case KeyHistoryEnabled:
		return strconv.FormatBool(s.History.Enabled), true
	case KeyHistoryLimit:
		return strconv.Itoa(s.History.Limit), true
	default:
		return "", false
	}
}
