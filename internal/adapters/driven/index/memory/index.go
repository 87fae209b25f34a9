// Package memory implements the hybrid index in process memory. It is
// used by tests and as a throwaway index for one-off sessions.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.HybridIndex = (*Index)(nil)

// Index is an in-memory hybrid index. Safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	records map[string]domain.IndexRecord
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{records: make(map[string]domain.IndexRecord)}
}

// Upsert writes the given records, overwriting by chunk ID.
func (ix *Index) Upsert(_ context.Context, records []domain.IndexRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, rec := range records {
		ix.records[rec.Chunk.ID] = rec
	}
	return nil
}

// DeleteDocument removes every record belonging to the document.
func (ix *Index) DeleteDocument(_ context.Context, documentID string) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	removed := 0
	for id, rec := range ix.records {
		if rec.Chunk.DocumentID == documentID {
			delete(ix.records, id)
			removed++
		}
	}
	return removed, nil
}

// VectorSearch ranks all stored records by cosine similarity.
func (ix *Index) VectorSearch(_ context.Context, embedding []float32, k int) ([]driven.VectorHit, error) {
	if len(embedding) == 0 || k <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	var hits []driven.VectorHit
	for id, rec := range ix.records {
		if len(rec.Embedding) != len(embedding) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    id,
			Similarity: cosineSimilarity(embedding, rec.Embedding),
		})
	}
	ix.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// KeywordSearch scores records by term frequency of the query terms.
// The scoring is deliberately simple; the SQLite adapter provides real
// BM25 ranking.
func (ix *Index) KeywordSearch(_ context.Context, query string, k int) ([]driven.KeywordHit, error) {
	terms := tokenize(query)
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	var hits []driven.KeywordHit
	for id, rec := range ix.records {
		score := termFrequencyScore(terms, rec.Chunk.Text)
		if score > 0 {
			hits = append(hits, driven.KeywordHit{ChunkID: id, Score: score})
		}
	}
	ix.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Record retrieves a stored record by chunk ID.
func (ix *Index) Record(_ context.Context, chunkID string) (*domain.IndexRecord, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	rec, ok := ix.records[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Stats returns corpus-level counters.
func (ix *Index) Stats(_ context.Context) (driven.IndexStats, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	docs := make(map[string]bool)
	for _, rec := range ix.records {
		docs[rec.Chunk.DocumentID] = true
	}
	return driven.IndexStats{Documents: len(docs), Chunks: len(ix.records)}, nil
}

// Ping always succeeds for the in-memory index.
func (ix *Index) Ping(_ context.Context) error { return nil }

// Close releases resources.
func (ix *Index) Close() error { return nil }

// tokenize lowercases and splits text into alphanumeric terms.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		return !isLower && !isDigit
	})
}

// termFrequencyScore counts query term occurrences in the text,
// normalised by text length to avoid favouring long chunks.
func termFrequencyScore(queryTerms []string, text string) float64 {
	textTerms := tokenize(text)
	if len(textTerms) == 0 {
		return 0
	}

	counts := make(map[string]int, len(textTerms))
	for _, t := range textTerms {
		counts[t]++
	}

	matches := 0
	for _, q := range queryTerms {
		matches += counts[q]
	}
	return float64(matches) / float64(len(textTerms))
}

// cosineSimilarity computes the cosine of the angle between two vectors
// of equal length. Zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
