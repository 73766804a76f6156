// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
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

// ErrServiceUnavailable is reported when no settings service is wired.
var ErrServiceUnavailable = errors.New("settings service not available")

// keyColumnWidth aligns the values of the settings list.
const keyColumnWidth = 26

// View lists the settings and edits one at a time.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	statusbar       *status.Bar
	editor          *input.Field
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	selected int
	editing  bool

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	var keys []string
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ShortHelp())

	return &View{
		styles:          s,
		keymap:          km,
		statusbar:       bar,
		editor:          input.NewField(s, "Value", ""),
		settingsService: settingsService,
		keys:            keys,
		width:           80,
		height:          24,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.editing = false
	v.editor.Blur()
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrServiceUnavailable}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// saveSetting returns a command that writes one setting.
func (v *View) saveSetting(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingSaved{Key: key, Err: ErrServiceUnavailable}
		}
		return messages.SettingSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
			return v, nil
		}
		v.settings = msg.Settings
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
			return v, nil
		}
		v.statusbar.Set(status.StateDone, "Saved "+msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleListKey(msg)
	}

	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}

	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.keys)-1 {
			v.selected++
		}

	case keymap.Matches(key, v.keymap.Select):
		if len(v.keys) == 0 {
			return v, nil
		}
		v.editing = true
		v.editor.SetValue(v.value(v.keys[v.selected]))
		v.statusbar.Set(status.StateReady, "Editing "+v.keys[v.selected]+". enter saves, esc cancels.")
		return v, v.editor.Focus()
	}

	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.editor.Blur()
		v.statusbar.Clear()
		return v, nil

	case tea.KeyEnter:
		v.editing = false
		v.editor.Blur()
		key := v.keys[v.selected]
		return v, v.saveSetting(key, strings.TrimSpace(v.editor.Value()))
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// value returns the current display value of key.
func (v *View) value(key string) string {
	if v.settings == nil {
		return ""
	}
	val, _ := v.settings.Value(key)
	return val
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n\n")
		b.WriteString(v.statusbar.View())
		return b.String()
	}

	for i, key := range v.keys {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}

		val := v.value(key)
		if val == "" {
			val = v.styles.Muted.Render("(not set)")
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(fmt.Sprintf("%-*s", keyColumnWidth, key)))
		b.WriteString(val)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.editor.View())
		b.WriteString("\n")
	}
	b.WriteString(v.statusbar.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editor.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Settings returns the settings last loaded, or nil.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Selected returns the selected key index.
func (v *View) Selected() int {
	return v.selected
}

// Editing returns whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}
