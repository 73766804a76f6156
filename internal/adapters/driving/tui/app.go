package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/views/files"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/views/pages"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/views/sheet"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// filesView picks files and shows the analysis.
	filesView *files.View

	// sheetView is the reference sheet requirements form.
	sheetView *sheet.View

	// pagesView shows the two pages of the current sheet.
	pagesView *pages.View

	// settingsView edits the application settings.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingAnalysisService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		filesView:    files.NewView(s, ports.Analysis),
		sheetView:    sheet.NewView(s, ports.Sheet),
		pagesView:    pages.NewView(s, ports.Sheet),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.filesView.WithContext(ctx)
	a.sheetView.WithContext(ctx)
	a.pagesView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("refsheet"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.Quit:
		return a, tea.Quit

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.FilesSelected:
		a.filesView, cmd = a.filesView.Update(msg)
		return a, cmd

	case messages.AnalysisCompleted:
		a.filesView, cmd = a.filesView.Update(msg)
		a.trackError(msg.Err)
		if msg.Err == nil && msg.Result != nil {
			a.sheetView.SetAnalysis(msg.Result)
		}
		return a, cmd

	case messages.SheetGenerated:
		a.sheetView, cmd = a.sheetView.Update(msg)
		a.trackError(msg.Err)
		if msg.Err == nil && msg.Sheet != nil {
			a.pagesView.SetSheet(msg.Sheet)
			a.currentView = messages.ViewPages
		}
		return a, cmd

	case messages.PagesLoaded:
		a.pagesView, cmd = a.pagesView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	return a, a.updateCurrent(msg)
}

// trackError records err unless a newer request replaced the one that failed.
func (a *App) trackError(err error) {
	if errors.Is(err, domain.ErrRequestSuperseded) {
		return
	}
	a.err = err
}

// switchView activates view and runs its Init.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view

	switch view {
	case messages.ViewFiles:
		return a.filesView.Init()
	case messages.ViewSheet:
		a.loadSheetDefaults()
		return a.sheetView.Init()
	case messages.ViewPages:
		return a.pagesView.Init()
	case messages.ViewSettings:
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
		return nil
	default:
		a.currentView = messages.ViewMenu
		return nil
	}
}

// loadSheetDefaults shows the configured requirement defaults on the form.
func (a *App) loadSheetDefaults() {
	if a.ports.Settings == nil {
		return
	}
	current, err := a.ports.Settings.Get()
	if err != nil {
		return
	}
	a.sheetView.SetDefaults(current.Sheet)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewFiles:
		a.filesView, cmd = a.filesView.Update(msg)
	case messages.ViewSheet:
		a.sheetView, cmd = a.sheetView.Update(msg)
	case messages.ViewPages:
		a.pagesView, cmd = a.pagesView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help is static.
	}

	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewFiles:
		return a.filesView.View()
	case messages.ViewSheet:
		return a.sheetView.View()
	case messages.ViewPages:
		return a.pagesView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Analyze files:
  enter       Add the typed path
  ctrl+d      Remove the last file
  ctrl+s      Analyze the selection
  ctrl+g      Make a reference sheet from the analysis

Reference sheet:
  tab         Next field
  shift+tab   Previous field
  ctrl+s      Generate

Pages:
  r           Split the sheet again
  ↑/↓         Scroll

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.menuView.SetDimensions(width, height)
	a.filesView.SetDimensions(width, height)
	a.sheetView.SetDimensions(width, height)
	a.pagesView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
