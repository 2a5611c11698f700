package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const defaultRetrievalTopK = 5

type collectionStatsResponse struct {
	Backend        string `json:"backend"`
	CollectionName string `json:"collection_name"`
	TotalChunks    int    `json:"total_chunks"`
}

type retrievalTestRequest struct {
	Query       string   `json:"query"`
	DocumentIDs []string `json:"document_ids"`
	TopK        int      `json:"top_k"`
}

type retrievalHit struct {
	Text            string            `json:"text"`
	Metadata        chunkMetadataJSON `json:"metadata"`
	SimilarityScore float64           `json:"similarity_score"`
	Distance        float64           `json:"distance"`
}

type retrievalTestResponse struct {
	Query             string         `json:"query"`
	DocumentIDsFilter []string       `json:"document_ids_filter"`
	ResultsCount      int            `json:"results_count"`
	Results           []retrievalHit `json:"results"`
}

type chunkPreview struct {
	Text     string            `json:"text"`
	Metadata chunkMetadataJSON `json:"metadata"`
}

type documentChunksResponse struct {
	DocumentID string         `json:"document_id"`
	ChunkCount int            `json:"chunk_count"`
	Chunks     []chunkPreview `json:"chunks"`
}

func (s *Server) handleCollectionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Debug.CollectionStats(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, collectionStatsResponse{
		Backend:        stats.Backend,
		CollectionName: stats.Collection,
		TotalChunks:    stats.Count,
	})
}

// handleRetrievalTest accepts either a JSON body (POST) or query parameters
// query, document_ids (comma separated) and top_k (GET).
func (s *Server) handleRetrievalTest(w http.ResponseWriter, r *http.Request) {
	req, err := parseRetrievalRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = defaultRetrievalTopK
	}

	chunks, err := s.svc.Debug.RetrievalTest(r.Context(), req.Query, req.TopK, req.DocumentIDs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	hits := make([]retrievalHit, len(chunks))
	for i, c := range chunks {
		hits[i] = retrievalHit{
			Text:            preview(c.Text),
			Metadata:        toChunkMetadataJSON(c.Metadata),
			SimilarityScore: round4(c.Score()),
			Distance:        round4(c.Distance),
		}
	}
	writeJSON(w, http.StatusOK, retrievalTestResponse{
		Query:             req.Query,
		DocumentIDsFilter: req.DocumentIDs,
		ResultsCount:      len(hits),
		Results:           hits,
	})
}

func parseRetrievalRequest(r *http.Request) (retrievalTestRequest, error) {
	var req retrievalTestRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errInvalidJSON
		}
		return req, nil
	}

	q := r.URL.Query()
	req.Query = q.Get("query")
	if ids := q.Get("document_ids"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.DocumentIDs = append(req.DocumentIDs, id)
			}
		}
	}
	if k := q.Get("top_k"); k != "" {
		n, err := strconv.Atoi(k)
		if err != nil {
			return req, errInvalidTopK
		}
		req.TopK = n
	}
	return req, nil
}

func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	chunks, err := s.svc.Debug.DocumentChunks(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	out := make([]chunkPreview, len(chunks))
	for i, c := range chunks {
		out[i] = chunkPreview{Text: preview(c.Text), Metadata: toChunkMetadataJSON(c.Metadata)}
	}
	writeJSON(w, http.StatusOK, documentChunksResponse{DocumentID: id, ChunkCount: len(out), Chunks: out})
}

var (
	errInvalidJSON = errors.New("Invalid JSON body")
	errInvalidTopK = errors.New("top_k must be an integer")
)
