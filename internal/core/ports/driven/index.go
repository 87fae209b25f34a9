package driven

import (
	"context"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// HybridIndex is the shared, externally durable search backend. It
// stores index records and serves both dense vector similarity and
// lexical keyword lookups over them.
//
// The index provides per-record atomicity but no cross-record
// transactions; document-level consistency is achieved by the
// indexer's replace-not-merge upsert policy, not by the backend.
//
// Adapters report an unreachable backend as domain.ErrIndexUnavailable.
type HybridIndex interface {
	// Upsert writes the given records, overwriting any existing record
	// with the same chunk ID.
	Upsert(ctx context.Context, records []domain.IndexRecord) error

	// DeleteDocument removes every record belonging to the document and
	// returns the number removed. Deleting an unknown document is not
	// an error and returns zero.
	DeleteDocument(ctx context.Context, documentID string) (int, error)

	// VectorSearch returns up to k records ranked by cosine similarity
	// to the query embedding, descending.
	VectorSearch(ctx context.Context, embedding []float32, k int) ([]VectorHit, error)

	// KeywordSearch returns up to k records ranked by lexical relevance
	// to the query text, descending.
	KeywordSearch(ctx context.Context, query string, k int) ([]KeywordHit, error)

	// Record retrieves a stored record by chunk ID for hydration.
	// The returned record's embedding may be omitted.
	Record(ctx context.Context, chunkID string) (*domain.IndexRecord, error)

	// Stats returns corpus-level counters for health reporting.
	Stats(ctx context.Context) (IndexStats, error)

	// Ping validates the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}

// KeywordHit is a lexical search result.
type KeywordHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the relevance score (e.g., BM25). Scale is
	// backend-specific; callers normalise before fusing.
	Score float64
}

// IndexStats summarises index contents.
type IndexStats struct {
	Documents int
	Chunks    int
}
