package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// MaxTopK is the retrieval ceiling applied regardless of the requested topK.
const MaxTopK = 3

// Fixed user-facing query outcomes.
const (
	ErrorNoDocumentsSelected = "No documents selected. Please select at least one document."
	AnswerSelectDocuments    = "Please select at least one document to query."
	AnswerNoRelevantInfo     = "No relevant information found in uploaded documents."
	ErrorEmptyQuestion       = "Question must not be empty."
	AnswerEmptyQuestion      = "Please enter a question."
)

// QueryService answers questions from a selection of documents.
type QueryService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	llm      driven.LLMService
	prompts  driven.PromptStore
	genOpts  driven.GenerateOptions
}

// NewQueryService creates a new query service.
// The embedder must be the one used at ingestion.
func NewQueryService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
) *QueryService {
	return &QueryService{
		embedder: embedder,
		index:    index,
		llm:      llm,
	}
}

// SetPromptStore sets the store used to load the answer template.
// Without one the built-in template is used.
func (s *QueryService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetGenerateOptions sets the options passed to every generation call.
func (s *QueryService) SetGenerateOptions(opts driven.GenerateOptions) {
	s.genOpts = opts
}

// queryState is the work completed so far for one query. The timeout
// fallback reads retrieved from here rather than from a local that may not
// have been assigned on the failing path.
type queryState struct {
	question  string
	topK      int
	docIDs    []string
	retrieved []domain.RetrievedChunk
}

// Query runs retrieval and generation for question over documentIDs.
func (s *QueryService) Query(
	ctx context.Context, question string, topK int, documentIDs []string,
) domain.QueryResult {
	logger.Section("Query")

	st := &queryState{
		question: question,
		topK:     EffectiveTopK(topK),
		docIDs:   selectedIDs(documentIDs),
	}
	logger.Debug("Question: %q", truncate(question, 100))
	logger.Debug("Selected documents: %d, topK: %d (requested %d)", len(st.docIDs), st.topK, topK)

	// 1. VALIDATE SELECTION (no embedding or index work without one)
	if len(st.docIDs) == 0 {
		logger.Warn("No documents selected for query")
		return domain.QueryResult{
			Success: false,
			Error:   ErrorNoDocumentsSelected,
			Answer:  AnswerSelectDocuments,
			Sources: []domain.Source{},
		}
	}
	if strings.TrimSpace(question) == "" {
		return domain.QueryResult{
			Success: false,
			Error:   ErrorEmptyQuestion,
			Answer:  AnswerEmptyQuestion,
			Sources: []domain.Source{},
		}
	}

	// 2. RETRIEVE
	retrieved, err := s.retrieve(ctx, st.question, st.topK, st.docIDs)
	if err != nil {
		return queryFailure(err)
	}
	st.retrieved = retrieved

	// 3. NO MATCHES IS A NORMAL OUTCOME
	if len(st.retrieved) == 0 {
		logger.Warn("No relevant chunks found in %d selected document(s)", len(st.docIDs))
		return domain.QueryResult{
			Success: true,
			Answer:  AnswerNoRelevantInfo,
			Sources: []domain.Source{},
		}
	}

	// 4. GENERATE
	answer, err := s.generate(ctx, st)
	if err != nil {
		if errors.Is(err, domain.ErrLLMTimeout) && len(st.retrieved) > 0 {
			logger.Warn("LLM timeout, answering with retrieved content")
			return domain.QueryResult{
				Success:  true,
				Answer:   FallbackAnswer(st.retrieved[0]),
				Sources:  domain.SourcesFromChunks(st.retrieved),
				Fallback: true,
			}
		}
		return queryFailure(err)
	}

	// 5. CITE
	sources := domain.SourcesFromChunks(st.retrieved)
	logger.Info("Answered with %d chunks and %d sources", len(st.retrieved), len(sources))
	return domain.QueryResult{
		Success: true,
		Answer:  answer,
		Sources: sources,
	}
}

// Retrieve embeds the question and returns up to topK chunks from the given
// documents, best first. topK is capped at MaxTopK. An empty documentIDs
// searches every document.
func (s *QueryService) Retrieve(
	ctx context.Context, question string, topK int, documentIDs []string,
) ([]domain.RetrievedChunk, error) {
	return s.retrieve(ctx, question, EffectiveTopK(topK), selectedIDs(documentIDs))
}

func (s *QueryService) retrieve(
	ctx context.Context, question string, topK int, docIDs []string,
) ([]domain.RetrievedChunk, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	chunks, err := s.index.Search(ctx, vector, topK, driven.ForDocuments(docIDs...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}

	for _, c := range chunks {
		logger.Debug("  %s score=%.4f %s p.%s", c.ID, c.Score(), c.Metadata.DisplayFileName(), c.Metadata.DisplayPage())
	}
	return chunks, nil
}

// generate assembles the prompt from the retrieved chunks and calls the LLM.
func (s *QueryService) generate(ctx context.Context, st *queryState) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt := BuildPrompt(s.answerTemplate(), FormatContext(st.retrieved), st.question)
	logger.Debug("Prompt length: %d chars, model: %s", len(prompt), s.llm.ModelName())

	answer, err := s.llm.Generate(ctx, prompt, s.genOpts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// answerTemplate loads the customised template, falling back to the default.
func (s *QueryService) answerTemplate() string {
	if s.prompts == nil {
		return DefaultAnswerPrompt
	}
	tmpl, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.Count(tmpl, "%s") != 2 {
		logger.Debug("Using default answer prompt (custom template unusable: %v)", err)
		return DefaultAnswerPrompt
	}
	return tmpl
}

// EffectiveTopK applies the retrieval ceiling. Non-positive values use the ceiling.
func EffectiveTopK(topK int) int {
	if topK <= 0 || topK > MaxTopK {
		return MaxTopK
	}
	return topK
}

// selectedIDs drops blank and repeated ids, keeping order.
func selectedIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// queryFailure builds the failure variant of a query result.
func queryFailure(err error) domain.QueryResult {
	logger.Warn("Query failed: %v", err)
	return domain.QueryResult{
		Success: false,
		Error:   fmt.Sprintf("Error in RAG query: %v", err),
		Answer:  fmt.Sprintf("Error processing your question: %v", err),
		Sources: []domain.Source{},
	}
}

// truncate shortens s to at most n runes for logging.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
