package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// maxChatBodyBytes bounds the JSON body of a chat request.
const maxChatBodyBytes = 1 << 20

type chatRequest struct {
	Message           string   `json:"message"`
	SelectedDocuments []string `json:"selected_documents"`
	TopK              int      `json:"top_k"`
}

type chatResponse struct {
	Response string       `json:"response"`
	Sources  []sourceJSON `json:"sources"`
	Fallback bool         `json:"fallback,omitempty"`
}

type historyResponse struct {
	Messages []messageJSON `json:"messages"`
	Count    int           `json:"count"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if len(req.SelectedDocuments) == 0 {
		logger.Warn("No documents selected for query")
		writeError(w, http.StatusBadRequest, "Please select at least one document to query")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message must not be empty")
		return
	}

	result, err := s.svc.Chat.Ask(r.Context(), req.Message, req.SelectedDocuments, req.TopK)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocumentsSelected) {
			writeError(w, http.StatusBadRequest, "Please select at least one document to query")
			return
		}
		detail := result.Error
		if detail == "" {
			detail = err.Error()
		}
		logger.Error("Chat query failed: %s", detail)
		writeError(w, http.StatusInternalServerError, detail)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: result.Answer,
		Sources:  toSourcesJSON(result.Sources),
		Fallback: result.Fallback,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := s.svc.Chat.History(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	out := make([]messageJSON, len(messages))
	for i, m := range messages {
		out[i] = toMessageJSON(m)
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: out, Count: len(out)})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Chat.Clear(r.Context()); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared successfully"})
}
