package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestFormatContext(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		{Text: "first", Metadata: domain.ChunkMetadata{FileName: "a.pdf", PageNumber: 2}},
		{Text: "second", Metadata: domain.ChunkMetadata{FileName: "b.txt", PageNumber: 1}},
	}

	got := FormatContext(chunks)

	want := "[Document: a.pdf, Page: 2]\nfirst\n" +
		"\n---\n" +
		"[Document: b.txt, Page: 1]\nsecond\n"
	assert.Equal(t, want, got)
}

func TestFormatContext_MissingMetadata(t *testing.T) {
	got := FormatContext([]domain.RetrievedChunk{{Text: "orphan"}})

	assert.Equal(t, "[Document: Unknown, Page: N/A]\norphan\n", got)
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Empty(t, FormatContext(nil))
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("", "CTX", "What is 100% of it?")

	assert.Contains(t, got, "Context:\nCTX\n")
	assert.Contains(t, got, "Question: What is 100% of it?")
	assert.Contains(t, got, RefusalPhrase)
	assert.True(t, strings.HasSuffix(got, "Answer:"))
}

func TestBuildPrompt_CustomTemplate(t *testing.T) {
	assert.Equal(t, "c=X q=Y", BuildPrompt("c=%s q=%s", "X", "Y"))
}

func TestFallbackAnswer(t *testing.T) {
	long := strings.Repeat("é", 600)

	got := FallbackAnswer(domain.RetrievedChunk{Text: long})

	assert.True(t, strings.HasPrefix(got, "[LLM is processing slowly]"))
	assert.True(t, strings.HasSuffix(got, strings.Repeat("é", 500)+"..."))
	assert.NotContains(t, got, strings.Repeat("é", 501))
}

func TestFallbackAnswer_ShortText(t *testing.T) {
	got := FallbackAnswer(domain.RetrievedChunk{Text: "brief"})

	assert.True(t, strings.HasSuffix(got, "\n\nbrief..."))
}
