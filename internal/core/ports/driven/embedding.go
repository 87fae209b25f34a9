package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Embeddings are deterministic per model version.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//
// Adapters report unreachable or malformed responses as
// domain.ErrEmbeddingUnavailable so callers can degrade to
// keyword-only retrieval.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// More efficient than calling Embed in a loop during ingestion.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used by health checks.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
