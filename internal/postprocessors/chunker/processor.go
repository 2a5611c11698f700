// Package chunker splits extracted document text into bounded, overlapping
// chunks that break on sentence or line boundaries where possible.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits page text into chunks and stamps chunk metadata.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a chunker. Parameters that would stop the window advancing
// are rejected with domain.ErrInvalidInput.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := (domain.ChunkerSettings{ChunkSize: p.chunkSize, Overlap: p.overlap}).Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split chunks text with the processor's parameters.
func (p *Processor) Split(text string) []string {
	// New validated the parameters, so Split cannot fail here.
	chunks, _ := Split(text, p.chunkSize, p.overlap)
	return chunks
}

// ChunkDocument chunks every page of doc in page order and stamps each chunk
// with documentID, its ordinal across the whole document and the document's
// total chunk count. Chunk IDs are "{documentID}_{ordinal}".
func (p *Processor) ChunkDocument(documentID string, doc *domain.ExtractedDocument) ([]domain.Chunk, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, page := range doc.Pages {
		for _, text := range p.Split(page.Text) {
			chunks = append(chunks, domain.Chunk{
				Text: text,
				Metadata: domain.ChunkMetadata{
					DocumentID: documentID,
					FileName:   doc.FileName,
					PageNumber: page.Number,
					TotalPages: doc.TotalPages,
				},
			})
		}
	}

	for i := range chunks {
		chunks[i].ID = domain.ChunkID(documentID, i)
		chunks[i].Metadata.ChunkIndex = i
		chunks[i].Metadata.TotalChunks = len(chunks)
	}
	return chunks, nil
}

// Split slides a window of maxSize characters over text. A window that does
// not reach the end is cut just after its last '.' or '\n' when that break
// lies past the middle of the window; the next window starts overlap
// characters before the cut, and windowing stops once that start is past
// the end of text. Chunks are whitespace-trimmed and empty chunks
// are dropped. Text no longer than maxSize is returned as a single trimmed
// chunk; empty text yields no chunks.
func Split(text string, maxSize, overlap int) ([]string, error) {
	if err := (domain.ChunkerSettings{ChunkSize: maxSize, Overlap: overlap}).Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	var chunks []string
	for _, s := range spans(runes, maxSize, overlap) {
		if chunk := strings.TrimSpace(string(runes[s.start:s.end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// span is a half-open rune range [start, end).
type span struct {
	start, end int
}

// spans computes the untrimmed windows. Parameters must already be valid.
func spans(runes []rune, maxSize, overlap int) []span {
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= maxSize {
		return []span{{0, n}}
	}

	var result []span
	start := 0
	for start < n {
		end := start + maxSize
		if end < n {
			// The break must leave room for the overlap, otherwise the next
			// window would not move forward.
			if cut := lastBreak(runes[start:end]); cut*2 > maxSize && cut+1 > overlap {
				end = start + cut + 1
			}
		}

		// end is not clamped, so windows after the one reaching the end of
		// text keep stepping forward and are emitted until start passes it.
		result = append(result, span{start, min(end, n)})
		start = end - overlap
	}
	return result
}

// lastBreak returns the index of the last '.' or '\n' in window, or -1.
func lastBreak(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' || window[i] == '\n' {
			return i
		}
	}
	return -1
}
