// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Entries with Quit set end the program.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var defaultItems = []Item{
	{Label: "Analyze files", Hint: "pick practice tests and send them for analysis", View: messages.ViewFiles},
	{Label: "Reference sheet", Hint: "set requirements and generate a sheet", View: messages.ViewSheet},
	{Label: "Pages", Hint: "view the latest sheet as two printable pages", View: messages.ViewPages},
	{Label: "Settings", Hint: "backend, sheet defaults and history", View: messages.ViewSettings},
	{Label: "Help", Hint: "keybindings", View: messages.ViewHelp},
	{Label: "Quit", Quit: true},
}

// View is the main menu.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	items := make([]Item, len(defaultItems))
	copy(items, defaultItems)

	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		items:  items,
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg.String())
	}

	return v, nil
}

func (v *View) handleKey(k string) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.selected = (v.selected - 1 + len(v.items)) % len(v.items)
	case keymap.Matches(k, v.keymap.Down):
		v.selected = (v.selected + 1) % len(v.items)
	case keymap.Matches(k, v.keymap.Select):
		return v, v.choose(v.selected)
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	case len(k) == 1 && k[0] >= '1' && k[0] <= '9':
		if i := int(k[0] - '1'); i < len(v.items) {
			v.selected = i
			return v, v.choose(i)
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Refsheet"))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render("Two-page reference sheets"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d  %s", i+1, item.Label)
		if i != v.selected {
			b.WriteString("  " + v.styles.Normal.Render(label) + "\n")
			continue
		}
		b.WriteString("> " + v.styles.Selected.Render(label))
		if item.Hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [1-6] Jump  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the menu items in display order.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
