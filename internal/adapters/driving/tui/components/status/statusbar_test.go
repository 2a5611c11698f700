package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := NewBar(s, km)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.SelectedCount())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_Init(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
}

func TestStatusBar_Update(t *testing.T) {
	bar := NewBar(nil, nil)

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateThinking)
	bar.SetMessage("working")
	bar.SetSelectedCount(3)
	bar.SetWidth(120)

	assert.Equal(t, StateThinking, bar.State())
	assert.Equal(t, "working", bar.Message())
	assert.Equal(t, 3, bar.SelectedCount())
	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Width_Default(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, 80, bar.Width())
}

func TestStatusBar_Clear_KeepsSelection(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.SetSelectedCount(2)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 2, bar.SelectedCount())
}

func TestStatusBar_View_Selection(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "No documents selected"},
		{1, "1 document selected"},
		{4, "4 documents selected"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetSelectedCount(tt.count)

			assert.Contains(t, bar.View(), tt.expected)
		})
	}
}

func TestStatusBar_View_Thinking(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateThinking)

	assert.Contains(t, bar.View(), "Thinking")
}

func TestStatusBar_View_ErrorWithMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetState(StateError)
	bar.SetMessage("connection failed")

	view := bar.View()

	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "connection failed")
}

func TestStatusBar_View_ReadyMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetMessage("Chat history cleared")

	assert.Contains(t, bar.View(), "Chat history cleared")
}

func TestStatusBar_View_Help(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateHelp)

	assert.Contains(t, bar.View(), "Help")
}

func TestStatusBar_View_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(160)

	assert.Contains(t, bar.View(), "quit")

	bar.SetHints(km.ChatHelp())
	view := bar.View()
	assert.Contains(t, view, "ask")
	assert.Contains(t, view, "clear chat")

	bar.SetHints(nil)
	assert.Contains(t, bar.View(), "quit")
}

func TestState_Constants(t *testing.T) {
	assert.Equal(t, State("ready"), StateReady)
	assert.Equal(t, State("thinking"), StateThinking)
	assert.Equal(t, State("error"), StateError)
	assert.Equal(t, State("help"), StateHelp)
}
