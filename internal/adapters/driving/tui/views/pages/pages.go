// Package pages shows a reference sheet as two fixed page regions.
package pages

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// emptyText is shown before any sheet exists.
const emptyText = "No reference sheet yet. Generate one from the Reference sheet screen."

// View renders the two pages of the current sheet.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewport  viewport.Model
	statusbar *status.Bar

	sheetService driving.SheetService
	ctx          context.Context

	sheetID string
	pages   domain.PagePair
	meta    string
	loaded  bool

	width  int
	height int
	ready  bool
}

// NewView creates a new pages view.
func NewView(s *styles.Styles, sheetService driving.SheetService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetHints(km.PagesHelp())

	return &View{
		styles:       s,
		keymap:       km,
		viewport:     viewport.New(80, 20),
		statusbar:    bar,
		sheetService: sheetService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the latest stored sheet when none is shown yet.
func (v *View) Init() tea.Cmd {
	if v.loaded || v.sheetService == nil {
		return nil
	}
	ctx := v.ctx
	svc := v.sheetService
	return func() tea.Msg {
		sheet, err := svc.Latest(ctx)
		if err != nil {
			return messages.PagesLoaded{Err: err}
		}
		return messages.PagesLoaded{SheetID: sheet.ID, Pages: sheet.Pages, Meta: sheet.Meta()}
	}
}

// SetSheet shows a freshly generated sheet.
func (v *View) SetSheet(sheet *domain.ReferenceSheet) {
	if sheet == nil {
		return
	}
	v.sheetID = sheet.ID
	v.setPages(sheet.Pages, sheet.Meta())
}

func (v *View) setPages(pages domain.PagePair, meta string) {
	v.pages = pages
	v.meta = meta
	v.loaded = true
	v.render()
	v.statusbar.Set(status.StateReady, meta)
}

// Update handles messages for the pages view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PagesLoaded:
		v.handlePagesLoaded(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(key, v.keymap.Resplit):
		return v, v.resplit()
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// resplit splits the shown sheet's stored text again.
func (v *View) resplit() tea.Cmd {
	if v.sheetService == nil || !v.loaded {
		return nil
	}
	v.statusbar.Set(status.StateBusy, "Splitting...")

	ctx := v.ctx
	svc := v.sheetService
	id := v.sheetID
	meta := v.meta
	return func() tea.Msg {
		pages, err := svc.Paginate(ctx, id)
		return messages.PagesLoaded{SheetID: id, Pages: pages, Meta: meta, Err: err}
	}
}

func (v *View) handlePagesLoaded(msg messages.PagesLoaded) {
	if msg.Err != nil {
		if !v.loaded {
			v.render()
			if errors.Is(msg.Err, domain.ErrNotFound) {
				v.statusbar.Clear()
				return
			}
		}
		v.statusbar.Set(status.StateError, domain.UserMessage(msg.Err))
		return
	}
	v.sheetID = msg.SheetID
	v.setPages(msg.Pages, msg.Meta)
}

func (v *View) render() {
	if !v.loaded {
		v.viewport.SetContent(v.styles.Muted.Render(emptyText))
		return
	}
	v.viewport.SetContent(v.styles.RenderPages(v.pages, v.viewport.Width))
	v.viewport.GotoTop()
}

// View renders the pages view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Pages"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	viewportHeight := height - 4
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	v.viewport.Width = width
	v.viewport.Height = viewportHeight
	v.statusbar.SetWidth(width)
	v.render()
}

// Pages returns the pages shown.
func (v *View) Pages() domain.PagePair {
	return v.pages
}

// SheetID returns the ID of the sheet shown.
func (v *View) SheetID() string {
	return v.sheetID
}

// Loaded returns whether a sheet is shown.
func (v *View) Loaded() bool {
	return v.loaded
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}
