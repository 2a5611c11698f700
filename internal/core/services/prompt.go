package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// RefusalPhrase is what the model is told to answer when the context does
// not contain the answer.
const RefusalPhrase = driven.AnswerRefusal

// DefaultAnswerPrompt is the grounded answer template. The first %s is the
// context and the second the question.
const DefaultAnswerPrompt = driven.DefaultAnswerPrompt

const (
	contextSeparator   = "\n---\n"
	fallbackPreviewLen = 500
	fallbackPrefix     = "[LLM is processing slowly] Here's relevant content from the documents:\n\n"
)

// FormatContext renders ranked chunks as prompt context, best match first.
// Each chunk becomes "[Document: <name>, Page: <page>]\n<text>\n" and chunks
// are joined with a separator line. Missing metadata renders as "Unknown"
// and "N/A".
func FormatContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return ""
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[Document: %s, Page: %s]\n%s\n",
			c.Metadata.DisplayFileName(), c.Metadata.DisplayPage(), c.Text)
	}
	return strings.Join(parts, contextSeparator)
}

// BuildPrompt fills template with the context and the verbatim question.
// An empty template uses DefaultAnswerPrompt.
func BuildPrompt(template, context, question string) string {
	if template == "" {
		template = DefaultAnswerPrompt
	}
	return fmt.Sprintf(template, context, question)
}

// FallbackAnswer builds the degraded answer used when generation timed out:
// a marked preview of the best-ranked chunk.
func FallbackAnswer(best domain.RetrievedChunk) string {
	preview := []rune(best.Text)
	if len(preview) > fallbackPreviewLen {
		preview = preview[:fallbackPreviewLen]
	}
	return fallbackPrefix + string(preview) + "..."
}
