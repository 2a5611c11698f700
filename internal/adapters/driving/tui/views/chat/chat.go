// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// historyLimit is how many past messages are shown when the view opens.
const historyLimit = 50

// View represents the chat view with the conversation, input and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.ChatInput
	list      *list.MessageList
	statusbar *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	selection []string
	topK      int

	width  int
	height int
	ready  bool
	err    error

	// fallback marks the last answer as an excerpt served after the model
	// timed out.
	fallback bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ChatHelp())

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewChatInput(s),
		list:        list.NewMessageList(s),
		statusbar:   bar,
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithTopK sets how many chunks each question retrieves. Zero uses the
// service default.
func (v *View) WithTopK(topK int) *View {
	v.topK = topK
	return v
}

// Init loads recent history and starts the cursor blinking.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		return v, v.handleAnswer(msg)

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.list.SetMessages(msg.Messages)
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.list.SetMessages(nil)
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("Chat history cleared")
		return v, nil

	case messages.SelectionChanged:
		v.SetSelection(msg.DocumentIDs)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.Documents):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}

	case keymap.Matches(msg.String(), v.keymap.ClearChat):
		if v.list.Pending() {
			return v, nil
		}
		return v, v.clearHistory()

	case msg.Type == tea.KeyEnter:
		return v, v.submit()
	}

	//nolint:exhaustive // handling only scroll keys
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit validates the typed question and starts answering it.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.list.Pending() {
		return nil
	}
	if len(v.selection) == 0 {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("Select at least one document first (tab)")
		return nil
	}

	v.err = nil
	v.fallback = false
	v.input.Reset()
	v.list.Append(domain.ChatMessage{
		Role:      domain.ChatRoleUser,
		Content:   question,
		Timestamp: time.Now().UTC(),
	})
	v.list.SetPending(true)
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	return v.ask(question, slices.Clone(v.selection))
}

// ask runs the question through the chat service.
func (v *View) ask(question string, ids []string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoChatService}
		}
		result, err := v.chatService.Ask(v.ctx, question, ids, v.topK)
		return messages.AnswerReceived{Question: question, Result: result, Err: err}
	}
}

// handleAnswer shows the answer, or the failure, and resyncs with the stored
// log so the view matches what other clients see.
func (v *View) handleAnswer(msg messages.AnswerReceived) tea.Cmd {
	v.list.SetPending(false)

	if msg.Err != nil {
		errMsg := msg.Result.Error
		if errMsg == "" {
			errMsg = msg.Err.Error()
		}
		v.setError(errors.New(errMsg))
		if errors.Is(msg.Err, ErrNoChatService) {
			return nil
		}
		return v.loadHistory()
	}

	v.err = nil
	v.fallback = msg.Result.Fallback
	v.statusbar.Clear()
	if msg.Result.Fallback {
		v.statusbar.SetMessage("Answered from retrieved text; the model did not respond in time")
	}
	v.list.Append(domain.ChatMessage{
		Role:      domain.ChatRoleAssistant,
		Content:   msg.Result.Answer,
		Timestamp: time.Now().UTC(),
		Sources:   msg.Result.Sources,
	})
	return nil
}

func (v *View) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryLoaded{Err: ErrNoChatService}
		}
		msgs, err := v.chatService.Recent(v.ctx, historyLimit)
		return messages.HistoryLoaded{Messages: msgs, Err: err}
	}
}

func (v *View) clearHistory() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryCleared{Err: ErrNoChatService}
		}
		return messages.HistoryCleared{Err: v.chatService.Clear(v.ctx)}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	// The fallback note takes the spacer line so the layout height is unchanged.
	spacer := ""
	if v.fallback {
		spacer = v.styles.FallbackNote()
	}

	sections := make([]string, 0, 6)
	sections = append(sections,
		v.styles.Title.Render("docqa"),
		"",
		v.list.View(),
		spacer,
		v.input.View(),
		v.statusbar.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, spacing, bordered input and status bar take eight lines.
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// SetSelection sets the documents the next question searches.
func (v *View) SetSelection(ids []string) {
	v.selection = slices.Clone(ids)
	v.statusbar.SetSelectedCount(len(ids))
	if v.statusbar.State() == status.StateError && len(ids) > 0 && v.err == nil {
		v.statusbar.Clear()
	}
}

// Selection returns the selected document IDs.
func (v *View) Selection() []string {
	return v.selection
}

// Messages returns the displayed conversation.
func (v *View) Messages() []domain.ChatMessage {
	return v.list.Messages()
}

// Pending reports whether an answer is in progress.
func (v *View) Pending() bool {
	return v.list.Pending()
}

// Question returns the text typed so far.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the typed text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Reset clears the typed question and any error.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
	v.err = nil
	v.statusbar.Clear()
}
