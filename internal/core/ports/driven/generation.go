package driven

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// GenerationService produces text from a generative language model.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Ollama (local models)
//   - Any OpenAI-compatible inference server
type GenerationService interface {
	// Generate produces a complete response for the conversation.
	Generate(ctx context.Context, messages []domain.Message, opts GenerateOptions) (string, error)

	// Stream produces the response incrementally. Tokens arrive on the
	// first channel in generation order; the channel is closed when the
	// generation completes. A mid-stream failure is delivered on the
	// error channel and terminates the token sequence; tokens already
	// delivered are not retracted. Cancelling ctx releases the
	// underlying connection.
	Stream(ctx context.Context, messages []domain.Message, opts GenerateOptions) (<-chan string, <-chan error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
