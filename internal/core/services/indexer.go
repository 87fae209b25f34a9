package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// DefaultBatchSize is how many chunks are embedded and upserted per
// batch during ingestion.
const DefaultBatchSize = 10

// Indexer turns chunks into index records and writes them to the
// hybrid index. Upserts follow a replace-not-merge policy: all prior
// records for the document are removed before the new set is inserted,
// so no stale chunks survive a re-ingest with different parameters.
type Indexer struct {
	index     driven.HybridIndex
	embedder  driven.EmbeddingService
	retry     RetryPolicy
	batchSize int
	limiter   *rate.Limiter
}

// IndexerOption configures the indexer.
type IndexerOption func(*Indexer)

// WithBatchSize sets the embedding/upsert batch size.
func WithBatchSize(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithEmbeddingRetry overrides the embedding retry policy.
func WithEmbeddingRetry(p RetryPolicy) IndexerOption {
	return func(ix *Indexer) { ix.retry = p }
}

// WithEmbeddingLimiter rate-limits embedding calls during bulk
// ingestion. Nil disables limiting.
func WithEmbeddingLimiter(l *rate.Limiter) IndexerOption {
	return func(ix *Indexer) { ix.limiter = l }
}

// NewIndexer creates an indexer.
func NewIndexer(index driven.HybridIndex, embedder driven.EmbeddingService, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		index:     index,
		embedder:  embedder,
		retry:     DefaultEmbeddingRetry,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Upsert replaces the document's records with records built from the
// given chunks and returns the number indexed.
//
// Chunks are embedded and written in fixed-size batches. If a batch
// fails, earlier batches remain committed and the error reports the
// count already committed; cancellation behaves the same way.
func (ix *Indexer) Upsert(ctx context.Context, doc domain.Document, chunks []domain.Chunk) (int, error) {
	removed, err := ix.index.DeleteDocument(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("clear previous records for %q: %w", doc.ID, err)
	}
	if removed > 0 {
		logger.Debug("Replaced %d stale records for %s", removed, doc.ID)
	}

	committed := 0
	for batchStart := 0; batchStart < len(chunks); batchStart += ix.batchSize {
		batchEnd := batchStart + ix.batchSize
		if batchEnd > len(chunks) {
			batchEnd = len(chunks)
		}
		batch := chunks[batchStart:batchEnd]

		records, err := ix.embedBatch(ctx, doc, batch)
		if err != nil {
			return committed, fmt.Errorf("embed batch at chunk %d (%d committed): %w", batchStart, committed, err)
		}

		if err := ix.index.Upsert(ctx, records); err != nil {
			return committed, fmt.Errorf("upsert batch at chunk %d (%d committed): %w", batchStart, committed, err)
		}
		committed += len(records)
	}

	logger.Debug("Indexed %d chunks for %s", committed, doc.ID)
	return committed, nil
}

// Remove deletes every record for the document and returns the count
// removed.
func (ix *Indexer) Remove(ctx context.Context, documentID string) (int, error) {
	removed, err := ix.index.DeleteDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("remove document %q: %w", documentID, err)
	}
	return removed, nil
}

// embedBatch generates embeddings for a batch of chunks with bounded
// retry and assembles the index records. Without an embedder the
// records carry no embeddings and retrieval runs keyword-only.
func (ix *Indexer) embedBatch(ctx context.Context, doc domain.Document, batch []domain.Chunk) ([]domain.IndexRecord, error) {
	if ix.embedder == nil {
		records := make([]domain.IndexRecord, len(batch))
		for i, ch := range batch {
			records[i] = domain.IndexRecord{Chunk: ch, SourceName: doc.SourceName}
		}
		return records, nil
	}

	if ix.limiter != nil {
		if err := ix.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	texts := make([]string, len(batch))
	for i, ch := range batch {
		texts[i] = ch.Text
	}

	var vectors [][]float32
	err := ix.retry.Do(ctx, func(ctx context.Context) error {
		var embedErr error
		vectors, embedErr = ix.embedder.EmbedBatch(ctx, texts)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(batch) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(vectors), len(batch))
	}

	want := ix.embedder.Dimensions()
	records := make([]domain.IndexRecord, len(batch))
	for i, ch := range batch {
		if len(vectors[i]) == 0 {
			return nil, fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrEmbeddingUnavailable, ch.ID)
		}
		if want > 0 && len(vectors[i]) != want {
			return nil, fmt.Errorf("%w: embedding for chunk %s has %d dimensions, %s produces %d",
				domain.ErrEmbeddingUnavailable, ch.ID, len(vectors[i]), ix.embedder.ModelName(), want)
		}
		records[i] = domain.IndexRecord{
			Chunk:      ch,
			Embedding:  vectors[i],
			SourceName: doc.SourceName,
		}
	}
	return records, nil
}
