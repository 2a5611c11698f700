package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newTestPorts() *Ports {
	return &Ports{
		Chat: &MockChatService{},
		Document: &MockDocumentService{ListFunc: func(context.Context) ([]domain.Document, error) {
			return []domain.Document{
				{ID: "d1", FileName: "report.pdf", FileSize: 2048},
				{ID: "d2", FileName: "notes.txt", FileSize: 10},
				{ID: "d3", FileName: "manual.pdf", FileSize: 4096},
			}, nil
		}},
	}
}

// readyApp returns an app that has received its first window size and
// loaded the document list.
func readyApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	docs, err := app.ports.Document.List(context.Background())
	require.NoError(t, err)
	app.Update(messages.DocumentsLoaded{Documents: docs})
	return app
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Document: &MockDocumentService{}})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingChatService)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrInvalidPorts)
}

func TestApp_WithContext(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.Same(t, app, model)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_Update_CtrlC(t *testing.T) {
	app := readyApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app := readyApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_MenuSummary(t *testing.T) {
	app := readyApp(t)

	assert.Contains(t, app.View(), "3 documents, none selected")
}

func TestApp_MenuNavigation(t *testing.T) {
	app := readyApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewChat, changed.View)

	_, initCmd := app.Update(changed)
	assert.NotNil(t, initCmd)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_SelectionFlowsToChatAndMenu(t *testing.T) {
	app := readyApp(t)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewDocuments})
	require.NotNil(t, cmd)
	app.Update(cmd())

	_, cmd = app.Update(runeKey("a"))
	require.NotNil(t, cmd)
	selection, ok := cmd().(messages.SelectionChanged)
	require.True(t, ok)
	app.Update(selection)

	assert.Equal(t, []string{"d1", "d2", "d3"}, app.Selection())

	app.Update(messages.ViewChanged{View: messages.ViewMenu})
	assert.Contains(t, app.View(), "3 documents, 3 selected")
}

func TestApp_AskFromChat(t *testing.T) {
	var gotIDs []string
	ports := newTestPorts()
	ports.Chat = &MockChatService{AskFunc: func(_ context.Context, _ string, ids []string, _ int) (domain.QueryResult, error) {
		gotIDs = ids
		return domain.QueryResult{Success: true, Answer: "It covers Q3."}, nil
	}}
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	app.Update(messages.SelectionChanged{DocumentIDs: []string{"d2"}})
	app.Update(messages.ViewChanged{View: messages.ViewChat})

	for _, r := range "what?" {
		app.Update(runeKey(string(r)))
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	answer, ok := cmd().(messages.AnswerReceived)
	require.True(t, ok)
	app.Update(answer)

	assert.Equal(t, []string{"d2"}, gotIDs)
	assert.Contains(t, app.View(), "It covers Q3.")
}

func TestApp_ChatMessagesRoutedWhileAway(t *testing.T) {
	app := readyApp(t)

	app.Update(messages.HistoryLoaded{Messages: []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "earlier question"},
	}})
	app.Update(messages.ViewChanged{View: messages.ViewChat})

	assert.Contains(t, app.View(), "earlier question")
}

func TestApp_HelpView(t *testing.T) {
	app := readyApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "Help")
	assert.Contains(t, app.View(), "ctrl+l")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_SettingsWithoutService(t *testing.T) {
	app := readyApp(t)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSettings})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewSettings, app.CurrentView())
	assert.Contains(t, app.View(), "settings service not available")
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app := readyApp(t)
	boom := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: boom})

	assert.ErrorIs(t, app.Err(), boom)
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_SetDimensions(t *testing.T) {
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)

	app.SetDimensions(90, 20)

	assert.True(t, app.Ready())
	assert.True(t, app.chatView.Ready())
	assert.Equal(t, 90, app.chatView.Width())
}
