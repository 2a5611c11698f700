package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// chatStore implements driven.ChatStore.
type chatStore struct {
	store *Store
}

var _ driven.ChatStore = (*chatStore)(nil)

// storedSource is the JSON shape of a citation in the sources column.
type storedSource struct {
	File string `json:"file"`
	Page int    `json:"page"`
}

// AppendMessage adds a message to the end of the log.
func (s *chatStore) AppendMessage(ctx context.Context, msg domain.ChatMessage) error {
	sources := make([]storedSource, len(msg.Sources))
	for i, src := range msg.Sources {
		sources[i] = storedSource{File: src.File, Page: src.Page}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chat_messages (role, content, sources, created_at)
		VALUES (?, ?, ?, ?)
	`, string(msg.Role), msg.Content, string(sourcesJSON), msg.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("appending chat message: %w", err)
	}
	return nil
}

// ListMessages returns all messages in insertion order.
func (s *chatStore) ListMessages(ctx context.Context) ([]domain.ChatMessage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT role, content, sources, created_at
		FROM chat_messages ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			msg         domain.ChatMessage
			role        string
			sourcesJSON string
		)
		if err := rows.Scan(&role, &msg.Content, &sourcesJSON, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msg.Role = domain.ChatRole(role)

		var sources []storedSource
		if err := json.Unmarshal([]byte(sourcesJSON), &sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		for _, src := range sources {
			msg.Sources = append(msg.Sources, domain.Source{File: src.File, Page: src.Page})
		}

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}

	return messages, nil
}

// ClearMessages removes every message.
func (s *chatStore) ClearMessages(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM chat_messages"); err != nil {
		return fmt.Errorf("clearing chat messages: %w", err)
	}
	return nil
}
