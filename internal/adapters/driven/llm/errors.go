// Package llm holds error mapping shared by the answer generation adapters.
// Provider implementations live in subpackages.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 500

// TransportError classifies a failed request. Timeouts, including an
// expired context deadline, become domain.ErrLLMTimeout. Anything else
// means the service could not be reached.
func TransportError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrLLMTimeout, provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %w", domain.ErrLLMTimeout, provider, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", provider, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrLLMUnreachable, provider, err)
}

// StatusError reports a non-success HTTP status with the start of the body.
func StatusError(provider string, status int, body []byte) error {
	text := []rune(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrLLMBadResponse, provider, status, string(text))
}

// MalformedError reports a response that could not be used.
func MalformedError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrLLMBadResponse, provider, err)
}
