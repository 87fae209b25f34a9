package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates missing or out-of-range pipeline
	// parameters. Fatal at startup, never during a request.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates the extractor does not handle the
	// document's file format. The offending document is skipped.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction indicates text extraction failed for a document.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding generator is
	// unreachable or returned malformed output. Retrieval degrades to
	// keyword-only rather than failing the query.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the answer generator failed
	// after bounded retries. Queries surface a fallback answer instead.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrIndexUnavailable indicates the hybrid index is unreachable.
	// Fatal for the current request.
	ErrIndexUnavailable = errors.New("index unavailable")
)
