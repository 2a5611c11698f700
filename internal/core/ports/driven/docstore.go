package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore persists uploaded document metadata.
type DocumentStore interface {
	// SaveDocument stores or replaces a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents ordered by upload time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document record.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// ChatStore persists the append-only chat log.
type ChatStore interface {
	// AppendMessage adds a message to the end of the log.
	AppendMessage(ctx context.Context, msg domain.ChatMessage) error

	// ListMessages returns all messages in insertion order.
	ListMessages(ctx context.Context) ([]domain.ChatMessage, error)

	// ClearMessages removes every message.
	ClearMessages(ctx context.Context) error
}
