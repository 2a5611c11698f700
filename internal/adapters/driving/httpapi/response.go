package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// previewLength is the number of characters of chunk text shown by the
// debug endpoints.
const previewLength = 200

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

type documentJSON struct {
	DocumentID string    `json:"document_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type sourceJSON struct {
	File string `json:"file"`
	Page int    `json:"page,omitempty"`
}

type messageJSON struct {
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Sources   []sourceJSON `json:"sources,omitempty"`
}

type chunkMetadataJSON struct {
	DocumentID  string `json:"document_id"`
	FileName    string `json:"file_name"`
	PageNumber  int    `json:"page_number"`
	TotalPages  int    `json:"total_pages"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
}

func toDocumentJSON(d domain.Document) documentJSON {
	return documentJSON{
		DocumentID: d.ID,
		FileName:   d.FileName,
		FilePath:   d.FilePath,
		FileSize:   d.FileSize,
		UploadedAt: d.UploadedAt,
	}
}

func toSourcesJSON(sources []domain.Source) []sourceJSON {
	out := make([]sourceJSON, len(sources))
	for i, s := range sources {
		out[i] = sourceJSON{File: s.File, Page: s.Page}
	}
	return out
}

func toMessageJSON(m domain.ChatMessage) messageJSON {
	msg := messageJSON{
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if len(m.Sources) > 0 {
		msg.Sources = toSourcesJSON(m.Sources)
	}
	return msg
}

func toChunkMetadataJSON(m domain.ChunkMetadata) chunkMetadataJSON {
	return chunkMetadataJSON{
		DocumentID:  m.DocumentID,
		FileName:    m.FileName,
		PageNumber:  m.PageNumber,
		TotalPages:  m.TotalPages,
		ChunkIndex:  m.ChunkIndex,
		TotalChunks: m.TotalChunks,
	}
}

// preview shortens text to previewLength characters, marking the cut.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrNoDocumentsSelected):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotImplemented),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrVectorIndexUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
