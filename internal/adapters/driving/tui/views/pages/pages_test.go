package pages

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refsheet-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// stubSheetService serves one stored sheet.
type stubSheetService struct {
	driving.SheetService

	latest      *domain.ReferenceSheet
	latestErr   error
	pages       domain.PagePair
	paginateErr error
	lastID      string
}

func (s *stubSheetService) Latest(_ context.Context) (*domain.ReferenceSheet, error) {
	return s.latest, s.latestErr
}

func (s *stubSheetService) Paginate(_ context.Context, sheetID string) (domain.PagePair, error) {
	s.lastID = sheetID
	return s.pages, s.paginateErr
}

func newTestView(svc driving.SheetService) *View {
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	return v
}

func testSheet() *domain.ReferenceSheet {
	return &domain.ReferenceSheet{
		ID:    "s1",
		Text:  "Cells\n\nTissues",
		Pages: domain.PagePair{First: "Cells", Second: "Tissues"},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Loaded())
	assert.Nil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_Init_LoadsLatest(t *testing.T) {
	v := newTestView(&stubSheetService{latest: testSheet()})

	cmd := v.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(messages.PagesLoaded)
	require.True(t, ok)
	assert.Equal(t, "s1", loaded.SheetID)

	v.Update(msg)

	assert.True(t, v.Loaded())
	assert.Equal(t, "s1", v.SheetID())
	assert.Equal(t, "Cells", v.Pages().First)

	view := v.View()
	assert.Contains(t, view, "Page 1")
	assert.Contains(t, view, "Page 2")
	assert.Contains(t, view, "Tissues")

	// Already loaded.
	assert.Nil(t, v.Init())
}

func TestView_Init_NoSheet(t *testing.T) {
	v := newTestView(&stubSheetService{latestErr: domain.ErrNotFound})

	v.Update(v.Init()())

	assert.False(t, v.Loaded())
	assert.Empty(t, v.StatusMessage())
	assert.Contains(t, v.View(), "No reference sheet yet")
}

func TestView_Init_Error(t *testing.T) {
	v := newTestView(&stubSheetService{latestErr: errors.New("database is locked")})

	v.Update(v.Init()())

	assert.False(t, v.Loaded())
	assert.Contains(t, v.StatusMessage(), "database is locked")
}

func TestView_SetSheet(t *testing.T) {
	v := newTestView(&stubSheetService{})

	v.SetSheet(testSheet())

	assert.True(t, v.Loaded())
	assert.Equal(t, "s1", v.SheetID())
	assert.Contains(t, v.StatusMessage(), "Reference sheet generated")

	v.SetSheet(nil)
	assert.Equal(t, "s1", v.SheetID())
}

func TestView_Resplit(t *testing.T) {
	svc := &stubSheetService{pages: domain.PagePair{First: "Cells", Second: "Organs"}}
	v := newTestView(svc)
	v.SetSheet(testSheet())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, "s1", svc.lastID)
	assert.Equal(t, "Organs", v.Pages().Second)
}

func TestView_Resplit_NotLoaded(t *testing.T) {
	v := newTestView(&stubSheetService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	assert.Nil(t, cmd)
}

func TestView_Resplit_ErrorKeepsPages(t *testing.T) {
	svc := &stubSheetService{paginateErr: errors.New("sheet gone")}
	v := newTestView(svc)
	v.SetSheet(testSheet())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, "Tissues", v.Pages().Second)
	assert.Contains(t, v.StatusMessage(), "sheet gone")
}

func TestView_Esc(t *testing.T) {
	v := newTestView(&stubSheetService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
