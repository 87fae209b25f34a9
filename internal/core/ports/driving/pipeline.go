// Package driving provides interfaces exposed to user-facing adapters
// (primary/inbound ports). The CLI and MCP server drive the core
// through these.
package driving

import "context"

// Pipeline is the retrieval-and-synthesis pipeline exposed to the
// surrounding service layer. Each call is request-scoped and
// independent; no mutable state is shared across requests beyond the
// hybrid index itself.
type Pipeline interface {
	// Ingest chunks, embeds and indexes raw text under the given
	// document ID, replacing any previous chunks for that document.
	Ingest(ctx context.Context, documentID, rawText string) (IngestResult, error)

	// IngestPath extracts and ingests a file, or every supported file
	// under a directory. Per-document failures do not abort the batch.
	IngestPath(ctx context.Context, path string) (BatchIngestReport, error)

	// Query answers a natural-language question from the corpus.
	// It never fails on generator problems; worst case the response
	// carries a fallback answer with zero sources.
	Query(ctx context.Context, question string) (QueryResponse, error)

	// Remove deletes a document's chunks from the index.
	Remove(ctx context.Context, documentID string) (int, error)

	// Health reports readiness of the index and external services.
	Health(ctx context.Context) Health
}

// IngestResult reports a single document ingestion.
type IngestResult struct {
	DocumentID    string `json:"document_id"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

// BatchIngestReport aggregates a directory ingestion. Failures are
// per-document and never silent.
type BatchIngestReport struct {
	Succeeded []IngestResult    `json:"succeeded"`
	Skipped   []string          `json:"skipped"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// QueryResponse is the user-visible outcome of one query.
type QueryResponse struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	ContextChunks int      `json:"context_chunks"`

	// Degraded is true when retrieval ran keyword-only or the answer
	// is the generation fallback.
	Degraded bool `json:"degraded,omitempty"`
}

// Health reports pipeline readiness. Model names are filled in for
// whichever services are configured, reachable or not.
type Health struct {
	Ready          bool   `json:"ready"`
	Index          bool   `json:"index"`
	Embedding      bool   `json:"embedding"`
	Generator      bool   `json:"generator"`
	Documents      int    `json:"documents"`
	Chunks         int    `json:"chunks"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	GeneratorModel string `json:"generator_model,omitempty"`
	Detail         string `json:"detail,omitempty"`
}
