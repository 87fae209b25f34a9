package domain

import (
	"fmt"
	"strings"
	"time"
)

// Document represents a named source artifact in the corpus.
// It is immutable once ingested; re-ingestion replaces all chunks
// derived from it.
type Document struct {
	// ID is the unique identifier (file path or caller-supplied name).
	ID string

	// SourceName is the human-readable name used for citations.
	SourceName string

	// IngestedAt is when the document was last (re-)ingested.
	IngestedAt time.Time
}

// Chunk is the atomic retrieval unit: a bounded contiguous slice of a
// document's text. Chunks are created by the chunker at ingestion time
// and immutable thereafter.
type Chunk struct {
	// ID is stable and deterministic, derived from the document ID and
	// the chunk's start offset.
	ID string

	// DocumentID links back to the owning document.
	DocumentID string

	// Text is the chunk content.
	Text string

	// StartOffset and EndOffset are character offsets into the source
	// document, kept for traceability.
	StartOffset int
	EndOffset   int

	// SequenceIndex is the position among chunks of the same document.
	// Used for tie-breaking and neighbour expansion.
	SequenceIndex int
}

// ChunkID derives the stable chunk identifier for a document offset.
func ChunkID(documentID string, startOffset int) string {
	return fmt.Sprintf("%s#%08d", documentID, startOffset)
}

// NewChunk constructs a validated Chunk. Malformed offsets or empty
// identifiers are rejected here so they cannot propagate into the index.
func NewChunk(documentID, text string, startOffset, endOffset, sequenceIndex int) (Chunk, error) {
	if strings.TrimSpace(documentID) == "" {
		return Chunk{}, fmt.Errorf("%w: empty document id", ErrInvalidInput)
	}
	if startOffset < 0 || endOffset < startOffset {
		return Chunk{}, fmt.Errorf("%w: invalid offsets [%d,%d)", ErrInvalidInput, startOffset, endOffset)
	}
	if endOffset-startOffset != len(text) {
		return Chunk{}, fmt.Errorf("%w: offsets [%d,%d) do not span text of length %d",
			ErrInvalidInput, startOffset, endOffset, len(text))
	}
	if sequenceIndex < 0 {
		return Chunk{}, fmt.Errorf("%w: negative sequence index %d", ErrInvalidInput, sequenceIndex)
	}
	return Chunk{
		ID:            ChunkID(documentID, startOffset),
		DocumentID:    documentID,
		Text:          text,
		StartOffset:   startOffset,
		EndOffset:     endOffset,
		SequenceIndex: sequenceIndex,
	}, nil
}

// IndexRecord is the persisted form of a chunk: the chunk itself, its
// dense embedding, and a denormalised source name for display. Records
// are written once per chunk and overwritten wholesale when the owning
// document is re-ingested.
type IndexRecord struct {
	Chunk Chunk

	// Embedding is the dense vector for similarity search. It may be
	// empty on records read back for hydration.
	Embedding []float32

	// SourceName is the display name of the owning document.
	SourceName string
}
