package tui

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

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

// send updates the app with msg and runs the returned command once.
func send(app *App, msg tea.Msg) tea.Msg {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Nil(t, app.Err())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(NewPorts(nil, &MockSheetService{}, nil))
	assert.ErrorIs(t, err, ErrMissingAnalysisService)

	_, err = NewApp(nil)
	assert.Error(t, err)
}

func TestApp_WithContext(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), struct{}{}, "x")
	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 50, app.height)
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_CtrlC_Quits(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	msg := send(app, tea.KeyMsg{Type: tea.KeyCtrlC})

	_, ok := msg.(tea.QuitMsg)
	assert.True(t, ok)
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	msg := send(app, messages.Quit{})

	_, ok := msg.(tea.QuitMsg)
	assert.True(t, ok)
}

func TestApp_ViewChanged(t *testing.T) {
	tests := []struct {
		view  messages.ViewType
		title string
	}{
		{messages.ViewFiles, "Analyze practice files"},
		{messages.ViewSheet, "Reference sheet"},
		{messages.ViewPages, "Pages"},
		{messages.ViewSettings, "Settings"},
		{messages.ViewHelp, "Help"},
		{messages.ViewMenu, "Refsheet"},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app := newTestApp(t, newTestPorts())

			app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Contains(t, app.View(), tt.title)
		})
	}
}

func TestApp_Help_EscReturnsToMenu(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_MenuNavigation(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	msg := send(app, tea.KeyMsg{Type: tea.KeyEnter})
	changed, ok := msg.(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewFiles, changed.View)

	app.Update(changed)
	assert.Equal(t, messages.ViewFiles, app.CurrentView())
}

func TestApp_AnalyzeThenGenerate(t *testing.T) {
	var gotReq driving.SheetRequest
	ports := newTestPorts()
	ports.Sheet = &MockSheetService{
		GenerateFunc: func(_ context.Context, req driving.SheetRequest) (*domain.ReferenceSheet, error) {
			gotReq = req
			return &domain.ReferenceSheet{
				ID:         "s1",
				AnalysisID: req.AnalysisID,
				Text:       "first\n\nsecond",
				Pages:      domain.PagePair{First: "first", Second: "second"},
			}, nil
		},
	}
	app := newTestApp(t, ports)
	app.Update(messages.ViewChanged{View: messages.ViewFiles})

	typeText(app, "notes.txt")
	selected := send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, messages.FilesSelected{}, selected)
	app.Update(selected)

	completed := send(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.IsType(t, messages.AnalysisCompleted{}, completed)
	app.Update(completed)
	assert.NoError(t, app.Err())

	changed := send(app, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.Equal(t, messages.ViewChanged{View: messages.ViewSheet}, changed)
	app.Update(changed)

	generated := send(app, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.IsType(t, messages.SheetGenerated{}, generated)
	app.Update(generated)

	assert.Equal(t, "a1", gotReq.AnalysisID)
	assert.Equal(t, "analysis", gotReq.AnalysisText)
	assert.Equal(t, messages.ViewPages, app.CurrentView())
	assert.Equal(t, "s1", app.pagesView.SheetID())

	view := app.View()
	assert.Contains(t, view, "Page 1")
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")
}

func TestApp_AnalysisError(t *testing.T) {
	ports := newTestPorts()
	ports.Analysis = &MockAnalysisService{
		AnalyzeFunc: func(_ context.Context, _ *domain.FileSelection) (*domain.AnalysisResult, error) {
			return nil, errors.New("backend down")
		},
	}
	app := newTestApp(t, ports)

	app.Update(messages.AnalysisCompleted{Err: errors.New("backend down")})

	assert.EqualError(t, app.Err(), "backend down")
	assert.Nil(t, app.filesView.Result())
}

func TestApp_SupersededResultsIgnored(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewSheet})

	app.Update(messages.AnalysisCompleted{Err: domain.ErrRequestSuperseded})
	app.Update(messages.SheetGenerated{Err: domain.ErrRequestSuperseded})

	assert.NoError(t, app.Err())
	assert.Equal(t, messages.ViewSheet, app.CurrentView())
}

func TestApp_SheetGeneratedError_StaysOnForm(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewSheet})

	app.Update(messages.SheetGenerated{Err: errors.New("Sheet generation failed (502)")})

	assert.Equal(t, messages.ViewSheet, app.CurrentView())
	assert.Error(t, app.Err())
	assert.Contains(t, app.sheetView.StatusMessage(), "502")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewFiles})

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}

func TestApp_SettingsRouting(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	loaded := send(app, messages.ViewChanged{View: messages.ViewSettings})
	require.IsType(t, messages.SettingsLoaded{}, loaded)
	app.Update(loaded)

	assert.Contains(t, app.View(), domain.DefaultBackendURL)
}

func TestApp_SheetDefaultsFromSettings(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Sheet.EventName = "Anatomy"
	ports := newTestPorts()
	ports.Settings = &MockSettingsService{Settings: settings}
	app := newTestApp(t, ports)

	app.Update(messages.ViewChanged{View: messages.ViewSheet})

	assert.Contains(t, app.View(), "default: Anatomy")
}
