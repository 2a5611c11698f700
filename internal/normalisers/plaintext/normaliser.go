package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents as a single page.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt"}
}

// Normalise reads the file as UTF-8 text. Invalid byte sequences are
// replaced rather than rejected. A file with only whitespace yields no pages.
func (n *Normaliser) Normalise(_ context.Context, path, fileName string) (*domain.ExtractedDocument, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrExtraction, fileName, err)
	}

	text := strings.ToValidUTF8(string(data), "�")

	doc := &domain.ExtractedDocument{
		FileName:   fileName,
		TotalPages: 1,
	}
	if strings.TrimSpace(text) != "" {
		doc.Pages = []domain.Page{{Number: 1, Text: text}}
	}
	return doc, nil
}
