package driven

import "context"

// LLMService produces text completions for answer synthesis.
//
// Implementations may include:
//   - OpenAI (chat completions API)
//   - Ollama (local models)
//
// Adapters report failures as domain.ErrGenerationUnavailable; the
// synthesiser retries a bounded number of times and then falls back to
// a degraded answer.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used by health checks.
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
}
