// Package list provides list display components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// MessageList displays the conversation, newest at the bottom.
// Scrolling moves a window up from the latest line.
type MessageList struct {
	messages []domain.ChatMessage
	pending  bool
	offset   int // lines scrolled up from the bottom
	styles   *styles.Styles
	width    int
	height   int
}

// NewMessageList creates a new message list component.
func NewMessageList(s *styles.Styles) *MessageList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MessageList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the message list.
func (m *MessageList) Init() tea.Cmd {
	return nil
}

// Update handles scrolling messages.
func (m *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			m.ScrollUp(1)
		case tea.KeyDown:
			m.ScrollDown(1)
		case tea.KeyPgUp:
			m.ScrollUp(m.height / 2)
		case tea.KeyPgDown:
			m.ScrollDown(m.height / 2)
		default:
			// Other keys belong to the input.
		}
	}
	return m, nil
}

// View renders the visible part of the conversation.
func (m *MessageList) View() string {
	if len(m.messages) == 0 && !m.pending {
		return m.styles.Muted.Render("No messages yet. Select documents, then ask a question.")
	}

	lines := m.lines()
	visible := m.visibleLines()

	end := len(lines) - m.offset
	start := end - visible
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:end], "\n")
}

// lines renders every message and wraps it to the list width.
func (m *MessageList) lines() []string {
	wrap := lipgloss.NewStyle().Width(m.contentWidth())

	//nolint:prealloc // size unknown until messages are wrapped
	var out []string
	for i, msg := range m.messages {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, m.renderRole(msg.Role))
		answer, sources := msg.Content, []string(nil)
		if msg.Role == domain.ChatRoleAssistant {
			answer, sources = styles.SplitSources(msg.Content)
		}
		for _, line := range strings.Split(wrap.Render(answer), "\n") {
			out = append(out, "  "+line)
		}
		if len(sources) > 0 {
			out = append(out, "", "  "+m.styles.Muted.Render("Sources"))
			for _, src := range sources {
				out = append(out, "  "+m.styles.Citation.Render(src))
			}
		}
	}
	if m.pending {
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, m.renderRole(domain.ChatRoleAssistant), m.styles.Muted.Render("  thinking..."))
	}
	return out
}

func (m *MessageList) renderRole(role domain.ChatRole) string {
	if role == domain.ChatRoleUser {
		return m.styles.UserRole.Render("You")
	}
	return m.styles.AssistantRole.Render("Assistant")
}

func (m *MessageList) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m *MessageList) visibleLines() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

// maxOffset is how far up the window can move.
func (m *MessageList) maxOffset() int {
	n := len(m.lines()) - m.visibleLines()
	if n < 0 {
		return 0
	}
	return n
}

// SetMessages replaces the conversation and scrolls to the latest message.
func (m *MessageList) SetMessages(messages []domain.ChatMessage) {
	m.messages = messages
	m.offset = 0
}

// Append adds a message and scrolls to it.
func (m *MessageList) Append(msg domain.ChatMessage) {
	m.messages = append(m.messages, msg)
	m.offset = 0
}

// Messages returns the displayed messages.
func (m *MessageList) Messages() []domain.ChatMessage {
	return m.messages
}

// SetPending shows or hides the placeholder for an answer in progress.
func (m *MessageList) SetPending(pending bool) {
	m.pending = pending
	m.offset = 0
}

// Pending reports whether an answer is in progress.
func (m *MessageList) Pending() bool {
	return m.pending
}

// ScrollUp moves the window towards older messages.
func (m *MessageList) ScrollUp(n int) {
	m.offset += max(n, 1)
	if limit := m.maxOffset(); m.offset > limit {
		m.offset = limit
	}
}

// ScrollDown moves the window towards the latest message.
func (m *MessageList) ScrollDown(n int) {
	m.offset -= max(n, 1)
	if m.offset < 0 {
		m.offset = 0
	}
}

// Offset returns how many lines the window is scrolled up.
func (m *MessageList) Offset() int {
	return m.offset
}

// SetDimensions sets the component dimensions.
func (m *MessageList) SetDimensions(width, height int) {
	m.width = width
	m.height = height
	if limit := m.maxOffset(); m.offset > limit {
		m.offset = limit
	}
}

// Width returns the current width.
func (m *MessageList) Width() int {
	return m.width
}

// Height returns the current height.
func (m *MessageList) Height() int {
	return m.height
}

// Count returns the number of messages.
func (m *MessageList) Count() int {
	return len(m.messages)
}

// IsEmpty returns whether the list is empty.
func (m *MessageList) IsEmpty() bool {
	return len(m.messages) == 0
}
