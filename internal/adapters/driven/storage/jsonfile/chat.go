package jsonfile

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure ChatStore implements the interface.
var _ driven.ChatStore = (*ChatStore)(nil)

type sourceRecord struct {
	File string `json:"file"`
	Page int    `json:"page,omitempty"`
}

type messageRecord struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Sources   []sourceRecord `json:"sources,omitempty"`
}

type historyFile struct {
	Messages []messageRecord `json:"messages"`
}

// ChatStore keeps the chat log in chat_history.json.
type ChatStore struct {
	mu       sync.Mutex
	path     string
	messages []messageRecord
}

// NewChatStore loads dataDir/chat_history.json, starting empty if it is absent.
func NewChatStore(dataDir string) (*ChatStore, error) {
	s := &ChatStore{path: filepath.Join(dataDir, ChatHistoryFileName)}

	var file historyFile
	if err := readJSON(s.path, &file); err != nil {
		return nil, err
	}
	s.messages = file.Messages
	return s, nil
}

// AppendMessage adds a message to the end of the log.
func (s *ChatStore) AppendMessage(_ context.Context, msg domain.ChatMessage) error {
	rec := messageRecord{
		Role:      string(msg.Role),
		Content:   msg.Content,
		Timestamp: msg.Timestamp.UTC(),
	}
	for _, src := range msg.Sources {
		rec.Sources = append(rec.Sources, sourceRecord{File: src.File, Page: src.Page})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clip(s.messages), rec)
	if err := writeJSON(s.path, historyFile{Messages: next}); err != nil {
		return err
	}
	s.messages = next
	return nil
}

// ListMessages returns all messages in insertion order.
func (s *ChatStore) ListMessages(_ context.Context) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]domain.ChatMessage, len(s.messages))
	for i, rec := range s.messages {
		msg := domain.ChatMessage{
			Role:      domain.ChatRole(rec.Role),
			Content:   rec.Content,
			Timestamp: rec.Timestamp,
		}
		for _, src := range rec.Sources {
			msg.Sources = append(msg.Sources, domain.Source{File: src.File, Page: src.Page})
		}
		messages[i] = msg
	}
	return messages, nil
}

// ClearMessages removes every message.
func (s *ChatStore) ClearMessages(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path, historyFile{Messages: []messageRecord{}}); err != nil {
		return err
	}
	s.messages = nil
	return nil
}
