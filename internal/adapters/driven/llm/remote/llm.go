// Package remote provides an LLM service adapter for a plain HTTP inference
// endpoint that takes {"prompt": ...} and answers {"response": ...}.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/docqa/internal/adapters/driven/llm"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

const providerName = "remote LLM"

// Config holds configuration for the remote LLM service.
type Config struct {
	// URL receives the prompt (default: domain.DefaultRemoteLLMURL).
	URL string

	// Model is a display name only; the endpoint chooses its model.
	Model string

	// Timeout bounds one call (default: domain.DefaultLLMTimeout).
	Timeout time.Duration
}

// LLMService sends prompts to a remote inference endpoint.
type LLMService struct {
	client *http.Client
	url    string
	model  string
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// generateResponse accepts the answer under any of the keys servers use.
type generateResponse struct {
	Response string `json:"response"`
	Output   string `json:"output"`
	Text     string `json:"text"`
}

func (r generateResponse) answer() string {
	switch {
	case r.Response != "":
		return r.Response
	case r.Output != "":
		return r.Output
	default:
		return r.Text
	}
}

// NewLLMService creates a new remote LLM service.
func NewLLMService(cfg Config) *LLMService {
	if cfg.URL == "" {
		cfg.URL = domain.DefaultRemoteLLMURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultLLMTimeout
	}
	if cfg.Model == "" {
		cfg.Model = "remote"
	}

	return &LLMService{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
		model:  cfg.Model,
	}
}

// Generate posts the prompt and returns the answer text. Generation options
// are not part of the endpoint contract and are ignored.
func (s *LLMService) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Calling remote LLM at %s (%d chars)", s.url, len(prompt))
	start := time.Now()

	resp, err := s.client.Do(req)
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", llm.StatusError(providerName, resp.StatusCode, data)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		// A body cut off by the client timeout surfaces here.
		if tErr := llm.TransportError(providerName, err); errors.Is(tErr, domain.ErrLLMTimeout) {
			return "", tErr
		}
		return "", llm.MalformedError(providerName, err)
	}

	answer := genResp.answer()
	if answer == "" {
		return "", llm.MalformedError(providerName, errors.New("empty response"))
	}

	logger.Debug("Received %d chars from remote LLM in %s", len(answer), time.Since(start).Round(time.Millisecond))
	return answer, nil
}

// ModelName returns the configured display name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the endpoint accepts connections. Any HTTP response
// counts, since the endpoint may not answer GET.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("remote: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return llm.TransportError(providerName, err)
	}
	_ = resp.Body.Close()
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
