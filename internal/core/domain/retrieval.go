package domain

// RetrievalResult is a single ranked retrieval hit. It exists only for
// the duration of one query and is never persisted.
type RetrievalResult struct {
	// Chunk is the retrieved chunk (reference, not ownership).
	Chunk Chunk

	// SourceName is the display name of the chunk's document.
	SourceName string

	// VectorScore is the raw cosine similarity from vector search, or
	// 0 when the chunk was found by keyword search only.
	VectorScore float64

	// KeywordScore is the raw lexical relevance score, or 0 when the
	// chunk was found by vector search only.
	KeywordScore float64

	// FusedScore is the weighted combination of the normalised vector
	// and keyword scores used for ranking.
	FusedScore float64

	// Rank is 1-based position in the final ordering.
	Rank int
}

// RetrievalSet is the outcome of one retrieval pass.
type RetrievalSet struct {
	Results []RetrievalResult

	// Degraded is true when the embedding generator was unavailable and
	// ranking fell back to keyword-only scores.
	Degraded bool
}

// Answer is the synthesised response for one query. Citations are
// carried over verbatim from the assembled context, never inferred from
// the generated prose.
type Answer struct {
	// Text is the generated answer, or a fallback message when
	// generation was unavailable.
	Text string

	// Sources lists distinct source names in order of first appearance
	// in the assembled context.
	Sources []string

	// ContextChunks is the number of chunks actually included in the
	// context window.
	ContextChunks int

	// Degraded is true when the answer is the generation fallback.
	Degraded bool
}
