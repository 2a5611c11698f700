package domain

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in the append-only chat log.
type ChatMessage struct {
	// Role is who wrote the message.
	Role ChatRole

	// Content is the message text.
	Content string

	// Timestamp is when the message was recorded.
	Timestamp time.Time

	// Sources lists citations for assistant answers.
	Sources []Source
}
