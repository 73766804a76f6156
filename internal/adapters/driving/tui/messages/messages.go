// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewFiles is the file picker and analysis output.
	ViewFiles
	// ViewSheet is the reference sheet requirements form.
	ViewSheet
	// ViewPages shows the two page regions.
	ViewPages
	// ViewSettings is the settings view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewFiles:
		return "files"
	case ViewSheet:
		return "sheet"
	case ViewPages:
		return "pages"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// FilesSelected carries the loaded file selection.
type FilesSelected struct {
	Paths     []string
	Selection *domain.FileSelection
	Err       error
}

// AnalysisCompleted carries the backend's analysis.
type AnalysisCompleted struct {
	Result *domain.AnalysisResult
	Err    error
}

// SheetGenerated carries a generated reference sheet.
type SheetGenerated struct {
	Sheet *domain.ReferenceSheet
	Err   error
}

// PagesLoaded carries pages split from a stored sheet or from text.
type PagesLoaded struct {
	SheetID string
	Pages   domain.PagePair
	Meta    string
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingSaved signals a single setting was saved.
type SettingSaved struct {
	Key string
	Err error
}
