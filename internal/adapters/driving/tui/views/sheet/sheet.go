// Package sheet provides the reference sheet requirements form for the TUI.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// Form field indices.
const (
	fieldEvent = iota
	fieldDivision
	fieldDifficulty
	fieldWords
	fieldRequired
	fieldBanned
	fieldNotes
	fieldCount
)

// View is the requirements form that requests a reference sheet.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	fields    []*input.Field
	focused   int
	statusbar *status.Bar

	sheetService driving.SheetService
	ctx          context.Context

	analysis *domain.AnalysisResult
	busy     bool

	width  int
	height int
	ready  bool
}

// NewView creates a new sheet form view.
func NewView(s *styles.Styles, sheetService driving.SheetService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetHints(km.FormHelp())

	fields := make([]*input.Field, fieldCount)
	fields[fieldEvent] = input.NewField(s, "Event", "e.g. Anatomy and Physiology")
	fields[fieldDivision] = input.NewField(s, "Division", "B or C")
	fields[fieldDifficulty] = input.NewField(s, "Difficulty", "easy, medium or hard")
	fields[fieldWords] = input.NewField(s, "Target words", "e.g. 1200")
	fields[fieldRequired] = input.NewField(s, "Required topics", "comma separated")
	fields[fieldBanned] = input.NewField(s, "Banned topics", "comma separated")
	fields[fieldNotes] = input.NewField(s, "Notes", "anything else the sheet should do")

	v := &View{
		styles:       s,
		keymap:       km,
		fields:       fields,
		statusbar:    bar,
		sheetService: sheetService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
	v.fields[0].Focus()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focused].Init()
}

// SetAnalysis sets the analysis the sheet is built from.
// Without one the latest stored analysis is used.
func (v *View) SetAnalysis(result *domain.AnalysisResult) {
	v.analysis = result
}

// SetDefaults shows the configured defaults as placeholders.
func (v *View) SetDefaults(defaults domain.SheetRequirements) {
	placeholder := func(f *input.Field, value string) {
		if value != "" {
			f.SetPlaceholder("default: " + value)
		}
	}
	placeholder(v.fields[fieldEvent], defaults.EventName)
	placeholder(v.fields[fieldDivision], defaults.Division)
	placeholder(v.fields[fieldDifficulty], defaults.Difficulty)
	if defaults.TargetWordCount > 0 {
		placeholder(v.fields[fieldWords], strconv.Itoa(defaults.TargetWordCount))
	}
	placeholder(v.fields[fieldRequired], defaults.RequiredTopics)
	placeholder(v.fields[fieldBanned], defaults.BannedTopics)
	placeholder(v.fields[fieldNotes], defaults.Notes)
}

// Update handles messages for the sheet view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SheetGenerated:
		v.handleSheetGenerated(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return v, nil
	}

	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewFiles}
		}

	case keymap.Matches(key, v.keymap.Submit):
		return v, v.generate()

	case keymap.Matches(key, v.keymap.Next), msg.Type == tea.KeyDown:
		return v, v.moveFocus(1)

	case keymap.Matches(key, v.keymap.Prev), msg.Type == tea.KeyUp:
		return v, v.moveFocus(-1)

	case msg.Type == tea.KeyEnter:
		if v.focused == fieldCount-1 {
			return v, v.generate()
		}
		return v, v.moveFocus(1)
	}

	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	return v, cmd
}

func (v *View) moveFocus(delta int) tea.Cmd {
	v.fields[v.focused].Blur()
	v.focused = (v.focused + delta + fieldCount) % fieldCount
	return v.fields[v.focused].Focus()
}

// Requirements reads the form into sheet requirements.
func (v *View) Requirements() (domain.SheetRequirements, error) {
	req := domain.SheetRequirements{
		EventName:      strings.TrimSpace(v.fields[fieldEvent].Value()),
		Division:       strings.TrimSpace(v.fields[fieldDivision].Value()),
		Difficulty:     strings.TrimSpace(v.fields[fieldDifficulty].Value()),
		RequiredTopics: strings.TrimSpace(v.fields[fieldRequired].Value()),
		BannedTopics:   strings.TrimSpace(v.fields[fieldBanned].Value()),
		Notes:          strings.TrimSpace(v.fields[fieldNotes].Value()),
	}

	if words := strings.TrimSpace(v.fields[fieldWords].Value()); words != "" {
		n, err := strconv.Atoi(words)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("%w: target words must be a positive number", domain.ErrInvalidInput)
		}
		req.TargetWordCount = n
	}
	return req, nil
}

// generate requests a sheet with the form's requirements.
func (v *View) generate() tea.Cmd {
	if v.sheetService == nil {
		return nil
	}

	requirements, err := v.Requirements()
	if err != nil {
		v.statusbar.Set(status.StateError, err.Error())
		return nil
	}

	req := driving.SheetRequest{Requirements: requirements}
	if v.analysis != nil {
		req.AnalysisID = v.analysis.ID
		req.AnalysisText = v.analysis.Response
	}

	v.busy = true
	v.statusbar.Set(status.StateBusy, "Generating reference sheet...")

	ctx := v.ctx
	svc := v.sheetService
	return func() tea.Msg {
		sheet, err := svc.Generate(ctx, req)
		return messages.SheetGenerated{Sheet: sheet, Err: err}
	}
}

func (v *View) handleSheetGenerated(msg messages.SheetGenerated) {
	// A newer request owns the form.
	if errors.Is(msg.Err, domain.ErrRequestSuperseded) {
		return
	}

	v.busy = false
	if msg.Err != nil {
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return
	}
	v.statusbar.Set(status.StateDone, msg.Sheet.Meta())
}

// View renders the sheet form.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Reference sheet"))
	b.WriteString("\n")
	if v.analysis != nil {
		b.WriteString(v.styles.Muted.Render("From: " + v.analysis.Meta()))
	} else {
		b.WriteString(v.styles.Muted.Render("From: latest stored analysis"))
	}
	b.WriteString("\n\n")

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	for _, f := range v.fields {
		f.SetWidth(width)
	}
	v.statusbar.SetWidth(width)
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focused
}

// Busy returns whether a sheet request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}
