package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// DefaultVectorWeight is the default fusion weight given to the
// normalised vector score.
const DefaultVectorWeight = 0.5

// candidate accumulates per-chunk scores before hydration and ranking.
type candidate struct {
	chunkID    string
	vector     float64
	keyword    float64
	hasVector  bool
	hasKeyword bool
}

// Retriever produces a fused, ranked, deduplicated list of relevant
// chunks from the hybrid index.
type Retriever struct {
	index    driven.HybridIndex
	embedder driven.EmbeddingService
	alpha    float64
	retry    RetryPolicy
}

// RetrieverOption configures the retriever.
type RetrieverOption func(*Retriever)

// WithVectorWeight sets the fusion weight alpha in [0,1]; weight 1
// ranks purely by vector similarity, 0 purely by keyword relevance.
func WithVectorWeight(alpha float64) RetrieverOption {
	return func(r *Retriever) {
		if alpha >= 0 && alpha <= 1 {
			r.alpha = alpha
		}
	}
}

// WithQueryEmbeddingRetry overrides the retry policy for query
// embedding calls.
func WithQueryEmbeddingRetry(p RetryPolicy) RetrieverOption {
	return func(r *Retriever) { r.retry = p }
}

// NewRetriever creates a retriever.
func NewRetriever(index driven.HybridIndex, embedder driven.EmbeddingService, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		index:    index,
		embedder: embedder,
		alpha:    DefaultVectorWeight,
		retry:    DefaultEmbeddingRetry,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve runs vector and keyword lookups for the question, fuses the
// candidate lists, and returns the top topK results with ranks
// assigned 1..k.
//
// When the embedding generator is unavailable the retriever degrades
// to keyword-only ranking and marks the set Degraded; an unreachable
// index is a hard failure. An empty index yields an empty set, not an
// error.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) (domain.RetrievalSet, error) {
	question = strings.TrimSpace(question)
	if question == "" || topK <= 0 {
		return domain.RetrievalSet{}, nil
	}

	// Each lookup requests 2*topK candidates so fusion has enough
	// overlap material to work with.
	fetch := 2 * topK

	queryVec, degraded := r.embedQuestion(ctx, question)

	var (
		vectorHits  []driven.VectorHit
		keywordHits []driven.KeywordHit
		vectorErr   error
		keywordErr  error
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		keywordHits, keywordErr = r.index.KeywordSearch(ctx, question, fetch)
	}()
	if !degraded {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vectorHits, vectorErr = r.index.VectorSearch(ctx, queryVec, fetch)
		}()
	}
	wg.Wait()

	if keywordErr != nil {
		return domain.RetrievalSet{}, fmt.Errorf("keyword search: %w", keywordErr)
	}
	if vectorErr != nil {
		return domain.RetrievalSet{}, fmt.Errorf("vector search: %w", vectorErr)
	}

	candidates := merge(vectorHits, keywordHits)
	if len(candidates) == 0 {
		return domain.RetrievalSet{Degraded: degraded}, nil
	}

	results, kept, err := r.hydrate(ctx, candidates)
	if err != nil {
		return domain.RetrievalSet{}, err
	}

	fuse(results, kept, r.alpha, degraded)
	rank(results)

	if len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	logger.Debug("Retrieved %d/%d candidates (degraded=%t)", len(results), len(candidates), degraded)
	return domain.RetrievalSet{Results: results, Degraded: degraded}, nil
}

// embedQuestion returns the query embedding, or nil and true when the
// embedding service is unavailable and retrieval should degrade.
func (r *Retriever) embedQuestion(ctx context.Context, question string) ([]float32, bool) {
	if r.embedder == nil {
		return nil, true
	}

	var vec []float32
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		var embedErr error
		vec, embedErr = r.embedder.Embed(ctx, question)
		return embedErr
	})
	if err != nil {
		logger.Warn("Query embedding unavailable, using keyword-only ranking: %v", err)
		return nil, true
	}
	if len(vec) == 0 {
		logger.Warn("Empty query embedding, using keyword-only ranking")
		return nil, true
	}
	return vec, false
}

// merge combines both hit lists by chunk ID. A chunk present in only
// one list keeps a zero score for the other.
func merge(vectorHits []driven.VectorHit, keywordHits []driven.KeywordHit) []candidate {
	byID := make(map[string]*candidate, len(vectorHits)+len(keywordHits))
	order := make([]string, 0, len(vectorHits)+len(keywordHits))

	for _, hit := range vectorHits {
		c, ok := byID[hit.ChunkID]
		if !ok {
			c = &candidate{chunkID: hit.ChunkID}
			byID[hit.ChunkID] = c
			order = append(order, hit.ChunkID)
		}
		c.vector = hit.Similarity
		c.hasVector = true
	}
	for _, hit := range keywordHits {
		c, ok := byID[hit.ChunkID]
		if !ok {
			c = &candidate{chunkID: hit.ChunkID}
			byID[hit.ChunkID] = c
			order = append(order, hit.ChunkID)
		}
		c.keyword = hit.Score
		c.hasKeyword = true
	}

	merged := make([]candidate, 0, len(order))
	for _, id := range order {
		merged = append(merged, *byID[id])
	}
	return merged
}

// hydrate loads the stored record for each candidate. Records deleted
// since the lookup are skipped. The surviving candidates are returned
// alongside, index-aligned with the results, so fusion can tell a raw
// score of zero apart from absence in a list.
func (r *Retriever) hydrate(ctx context.Context, candidates []candidate) ([]domain.RetrievalResult, []candidate, error) {
	results := make([]domain.RetrievalResult, 0, len(candidates))
	kept := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		rec, err := r.index.Record(ctx, c.chunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("hydrate chunk %s: %w", c.chunkID, err)
		}
		results = append(results, domain.RetrievalResult{
			Chunk:        rec.Chunk,
			SourceName:   rec.SourceName,
			VectorScore:  c.vector,
			KeywordScore: c.keyword,
		})
		kept = append(kept, c)
	}
	return results, kept, nil
}

// fuse computes the fused score for every result: a weighted sum of
// the min-max normalised vector and keyword score lists. Each list is
// normalised independently over the candidates that appeared in it; a
// list whose scores are all equal (including a singleton) normalises
// to 1.0. In degraded mode the fused score is the normalised keyword
// score alone. cands must be index-aligned with results.
func fuse(results []domain.RetrievalResult, cands []candidate, alpha float64, degraded bool) {
	vecNorm := normalise(cands, func(c candidate) (float64, bool) {
		return c.vector, c.hasVector
	})
	kwNorm := normalise(cands, func(c candidate) (float64, bool) {
		return c.keyword, c.hasKeyword
	})

	for i := range results {
		if degraded {
			results[i].FusedScore = kwNorm[i]
			continue
		}
		results[i].FusedScore = alpha*vecNorm[i] + (1-alpha)*kwNorm[i]
	}
}

// normalise min-max scales the scores selected by pick over the
// candidates present in that list; absentees stay at zero. Presence
// comes from the hit lists, so a legitimate raw score of zero still
// participates in the scaling.
func normalise(cands []candidate, pick func(candidate) (float64, bool)) []float64 {
	minScore, maxScore := 0.0, 0.0
	found := false
	for _, c := range cands {
		score, ok := pick(c)
		if !ok {
			continue
		}
		if !found {
			minScore, maxScore = score, score
			found = true
			continue
		}
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	out := make([]float64, len(cands))
	if !found {
		return out
	}
	for i, c := range cands {
		score, ok := pick(c)
		if !ok {
			continue
		}
		if maxScore == minScore {
			out[i] = 1.0
			continue
		}
		out[i] = (score - minScore) / (maxScore - minScore)
	}
	return out
}

// rank orders results by fused score descending, breaking ties by raw
// vector score, then sequence index, then chunk ID for full
// determinism.
func rank(results []domain.RetrievalResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FusedScore != results[j].FusedScore {
			return results[i].FusedScore > results[j].FusedScore
		}
		if results[i].VectorScore != results[j].VectorScore {
			return results[i].VectorScore > results[j].VectorScore
		}
		if results[i].Chunk.SequenceIndex != results[j].Chunk.SequenceIndex {
			return results[i].Chunk.SequenceIndex < results[j].Chunk.SequenceIndex
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
}
