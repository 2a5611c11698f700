package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultRecentLimit is the number of messages Recent returns by default.
const DefaultRecentLimit = 50

// maxFooterSources is how many citations are listed under an answer.
const maxFooterSources = 3

// ChatService records conversations around the query pipeline.
type ChatService struct {
	store driven.ChatStore
	query driving.QueryService
	now   func() time.Time
}

// NewChatService creates a new chat service.
func NewChatService(store driven.ChatStore, query driving.QueryService) *ChatService {
	return &ChatService{
		store: store,
		query: query,
		now:   time.Now,
	}
}

// Ask runs the question through the query pipeline and records the user
// message and the assistant reply. The returned answer carries the sources
// footer that was stored.
func (s *ChatService) Ask(
	ctx context.Context, question string, documentIDs []string, topK int,
) (domain.QueryResult, error) {
	if s.store == nil || s.query == nil {
		return domain.QueryResult{}, domain.ErrNotImplemented
	}
	if len(selectedIDs(documentIDs)) == 0 {
		return domain.QueryResult{
			Success: false,
			Error:   ErrorNoDocumentsSelected,
			Answer:  AnswerSelectDocuments,
			Sources: []domain.Source{},
		}, domain.ErrNoDocumentsSelected
	}

	if err := s.append(ctx, domain.ChatRoleUser, question, nil); err != nil {
		return domain.QueryResult{}, err
	}

	result := s.query.Query(ctx, question, topK, documentIDs)
	if !result.Success {
		return result, fmt.Errorf("query: %s", result.Error)
	}

	result.Answer = FormatAnswerWithSources(result.Answer, result.Sources)
	if err := s.append(ctx, domain.ChatRoleAssistant, result.Answer, result.Sources); err != nil {
		return result, err
	}

	logger.Debug("Chat answer recorded with %d sources", len(result.Sources))
	return result, nil
}

// History returns the full chat log.
func (s *ChatService) History(ctx context.Context) ([]domain.ChatMessage, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListMessages(ctx)
}

// Recent returns at most limit of the latest messages.
func (s *ChatService) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	messages, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// Clear removes the chat log.
func (s *ChatService) Clear(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.ClearMessages(ctx)
}

func (s *ChatService) append(ctx context.Context, role domain.ChatRole, content string, sources []domain.Source) error {
	msg := domain.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
		Sources:   sources,
	}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return fmt.Errorf("save %s message: %w", role, err)
	}
	return nil
}

// FormatAnswerWithSources appends a numbered "**Sources:**" list of up to
// three citations to answer.
func FormatAnswerWithSources(answer string, sources []domain.Source) string {
	if len(sources) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\n**Sources:**\n")
	for i, src := range sources {
		if i == maxFooterSources {
			break
		}
		page := domain.ChunkMetadata{PageNumber: src.Page}.DisplayPage()
		fmt.Fprintf(&b, "%d. %s (Page %s)\n", i+1, src.File, page)
	}
	return b.String()
}
