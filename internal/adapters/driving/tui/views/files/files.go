// Package files provides the file picker and analysis view for the TUI.
package files

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// analyzingText fills the output region while a request is in flight.
const analyzingText = "Analyzing files..."

// View is the file picker with the analysis output region below it.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	output    viewport.Model
	statusbar *status.Bar

	analysisService driving.AnalysisService
	ctx             context.Context

	paths     []string
	selection *domain.FileSelection
	result    *domain.AnalysisResult
	meta      string
	busy      bool

	width  int
	height int
	ready  bool
}

// NewView creates a new files view.
func NewView(s *styles.Styles, analysisService driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetHints(km.FilesHelp())

	v := &View{
		styles:          s,
		keymap:          km,
		input:           input.NewField(s, "Add file", "path to a practice file, then enter"),
		output:          viewport.New(80, 10),
		statusbar:       bar,
		analysisService: analysisService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
	v.input.Focus()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.input.Focus())
}

// Update handles messages for the files view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FilesSelected:
		v.handleFilesSelected(msg)
		return v, nil

	case messages.AnalysisCompleted:
		v.handleAnalysisCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case msg.Type == tea.KeyEnter:
		path := strings.TrimSpace(v.input.Value())
		if path == "" {
			return v, nil
		}
		v.input.Reset()
		return v, v.selectFiles(append(append([]string{}, v.paths...), path))

	case keymap.Matches(key, v.keymap.Remove):
		if len(v.paths) == 0 {
			return v, nil
		}
		return v, v.selectFiles(v.paths[:len(v.paths)-1])

	case keymap.Matches(key, v.keymap.Submit):
		return v, v.analyze()

	case keymap.Matches(key, v.keymap.Sheet):
		if v.result == nil {
			v.statusbar.Set(status.StateError, "Analyze files before making a sheet.")
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSheet}
		}

	case key == "pgup" || key == "pgdown":
		var cmd tea.Cmd
		v.output, cmd = v.output.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// selectFiles loads paths into a selection without uploading.
func (v *View) selectFiles(paths []string) tea.Cmd {
	if v.analysisService == nil {
		return nil
	}
	ctx := v.ctx
	svc := v.analysisService
	return func() tea.Msg {
		sel, err := svc.Select(ctx, paths)
		return messages.FilesSelected{Paths: paths, Selection: sel, Err: err}
	}
}

// analyze uploads the current selection.
func (v *View) analyze() tea.Cmd {
	if v.analysisService == nil {
		return nil
	}

	v.busy = true
	v.meta = ""
	v.setOutput(analyzingText)
	v.statusbar.Set(status.StateBusy, "Analyzing...")

	ctx := v.ctx
	svc := v.analysisService
	sel := v.selection
	return func() tea.Msg {
		result, err := svc.Analyze(ctx, sel)
		return messages.AnalysisCompleted{Result: result, Err: err}
	}
}

func (v *View) handleFilesSelected(msg messages.FilesSelected) {
	if msg.Err != nil {
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return
	}
	v.paths = msg.Paths
	v.selection = msg.Selection
	v.statusbar.Set(status.StateReady, v.selection.Summary())
}

func (v *View) handleAnalysisCompleted(msg messages.AnalysisCompleted) {
	// A newer request owns the output region.
	if errors.Is(msg.Err, domain.ErrRequestSuperseded) {
		return
	}

	v.busy = false
	if msg.Err != nil {
		v.result = nil
		v.meta = ""
		v.setOutput(domain.UserMessage(msg.Err))
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return
	}

	v.result = msg.Result
	v.meta = msg.Result.Meta()
	v.setOutput(msg.Result.DisplayText())
	v.statusbar.Set(status.StateDone, "Analysis complete. ctrl+g makes a reference sheet.")
}

func (v *View) setOutput(text string) {
	v.output.SetContent(lipgloss.NewStyle().Width(v.output.Width).Render(text))
	v.output.GotoTop()
}

// View renders the files view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Analyze practice files"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.renderChips())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.selection.Summary()))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Analysis"))
	b.WriteString("\n")
	b.WriteString(v.styles.Border.Render(v.output.View()))
	b.WriteString("\n")
	if v.meta != "" {
		b.WriteString(v.styles.Muted.Render(v.meta))
	}
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())

	return b.String()
}

func (v *View) renderChips() string {
	names := v.selection.Names()
	if len(names) == 0 {
		return ""
	}
	chips := make([]string, len(names))
	for i, name := range names {
		chips[i] = v.styles.Chip.Render(name)
	}
	return lipgloss.NewStyle().Width(v.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Title, input, chips, summary, headings, meta and status bar.
	outputHeight := height - 14
	if outputHeight < 3 {
		outputHeight = 3
	}
	v.output.Width = width - 2
	v.output.Height = outputHeight
}

// Reset clears the input but keeps the selection and last analysis.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
}

// Selection returns the current file selection.
func (v *View) Selection() *domain.FileSelection {
	return v.selection
}

// Result returns the last analysis shown, or nil.
func (v *View) Result() *domain.AnalysisResult {
	return v.result
}

// Busy returns whether an analysis is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Output returns the text of the output region.
func (v *View) Output() string {
	return v.output.View()
}
