package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Normaliser extracts page-numbered text from a stored file.
// Each normaliser handles specific file extensions (e.g., .pdf, .txt).
type Normaliser interface {
	// SupportedExtensions returns the lower-case extensions handled, with dots.
	SupportedExtensions() []string

	// Normalise reads the file at path and returns its non-empty pages.
	// fileName is the display name recorded in the result.
	Normalise(ctx context.Context, path, fileName string) (*domain.ExtractedDocument, error)
}

// NormaliserRegistry selects a normaliser for a file.
type NormaliserRegistry interface {
	// For returns the normaliser for fileName's extension or
	// domain.ErrUnsupportedType.
	For(fileName string) (Normaliser, error)

	// Supports reports whether fileName's extension can be extracted.
	Supports(fileName string) bool

	// Extensions lists every supported extension.
	Extensions() []string
}
