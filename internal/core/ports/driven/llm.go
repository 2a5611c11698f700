package driven

import "context"

// LLMService generates answers from a fully assembled prompt.
//
// Generate must report failures so callers can tell them apart with
// errors.Is: domain.ErrLLMTimeout when the call exceeded its deadline,
// domain.ErrLLMUnreachable when the endpoint could not be contacted, and
// domain.ErrLLMBadResponse for non-success statuses or empty answers.
// Implementations enforce their own call timeout and never retry.
//
// Implementations include:
//   - Remote HTTP endpoint ({"prompt"} in, {"response"} out)
//   - Ollama (local models)
//   - OpenAI (GPT-4o family)
//   - Anthropic (Claude)
type LLMService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model or endpoint being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero uses the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
