package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(documentID, text, sourceName string, seq int, embedding []float32) domain.IndexRecord {
	return domain.IndexRecord{
		Chunk: domain.Chunk{
			ID:            domain.ChunkID(documentID, seq*100),
			DocumentID:    documentID,
			Text:          text,
			StartOffset:   seq * 100,
			EndOffset:     seq*100 + len(text),
			SequenceIndex: seq,
		},
		Embedding:  embedding,
		SourceName: sourceName,
	}
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(context.Background(),
		[]domain.IndexRecord{record("doc", "persistent text", "doc", 0, []float32{1, 0})}))
	require.NoError(t, s.Close())

	// Reopening must not re-run migrations or lose data.
	s2, err := NewStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	rec, err := s2.Record(context.Background(), domain.ChunkID("doc", 0))
	require.NoError(t, err)
	assert.Equal(t, "persistent text", rec.Chunk.Text)
}

func TestUpsertAndRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := record("docs/policy.md", "Vacation policy grants 25 days.", "policy.md", 2, []float32{0.1, 0.2})
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{in}))

	got, err := s.Record(ctx, in.Chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Chunk.ID, got.Chunk.ID)
	assert.Equal(t, "docs/policy.md", got.Chunk.DocumentID)
	assert.Equal(t, "policy.md", got.SourceName)
	assert.Equal(t, "Vacation policy grants 25 days.", got.Chunk.Text)
	assert.Equal(t, 200, got.Chunk.StartOffset)
	assert.Equal(t, 2, got.Chunk.SequenceIndex)
}

func TestUpsert_OverwritesSameChunkID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := record("doc", "original text", "doc", 0, []float32{1, 0})
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{first}))

	second := first
	second.Chunk.Text = "updated text"
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{second}))

	got, err := s.Record(ctx, first.Chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated text", got.Chunk.Text)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
}

func TestRecord_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Record(context.Background(), "missing#00000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{
		record("doc", "first", "doc", 0, []float32{1, 0}),
		record("doc", "second", "doc", 1, []float32{0, 1}),
		record("other", "third", "other", 0, []float32{1, 1}),
	}))

	removed, err := s.DeleteDocument(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 1, stats.Chunks)
}

func TestDeleteDocument_Unknown(t *testing.T) {
	s := newTestStore(t)
	removed, err := s.DeleteDocument(context.Background(), "never-ingested")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestVectorSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	close1 := record("doc", "near the query", "doc", 0, []float32{1, 0, 0})
	close2 := record("doc", "somewhat near", "doc", 1, []float32{0.7, 0.7, 0})
	far := record("doc", "orthogonal", "doc", 2, []float32{0, 0, 1})
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{close1, close2, far}))

	hits, err := s.VectorSearch(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, close1.Chunk.ID, hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, close2.Chunk.ID, hits[1].ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestVectorSearch_SkipsMismatchedDimensions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	good := record("doc", "indexed with 3 dims", "doc", 0, []float32{1, 0, 0})
	stale := record("doc", "indexed with 2 dims", "doc", 1, []float32{1, 0})
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{good, stale}))

	hits, err := s.VectorSearch(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, good.Chunk.ID, hits[0].ChunkID)
}

func TestVectorSearch_EmptyQuery(t *testing.T) {
	s := newTestStore(t)
	hits, err := s.VectorSearch(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestKeywordSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	vac := record("vacation.md", "Vacation policy grants 25 days of paid vacation.", "vacation.md", 0, nil)
	exp := record("expenses.md", "Expense reports are due at the end of the month.", "expenses.md", 0, nil)
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{vac, exp}))

	hits, err := s.KeywordSearch(ctx, "vacation policy", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, vac.Chunk.ID, hits[0].ChunkID)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestKeywordSearch_NoMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{
		record("doc", "completely unrelated content", "doc", 0, nil),
	}))

	hits, err := s.KeywordSearch(ctx, "zzzzz qqqqq", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestKeywordSearch_QuoteInjection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{
		record("doc", "some searchable content", "doc", 0, nil),
	}))

	// Quotes and FTS operators in user input must not break the query.
	_, err := s.KeywordSearch(ctx, `searchable" OR "content`, 5)
	require.NoError(t, err)
}

func TestKeywordSearch_EmptyQuery(t *testing.T) {
	s := newTestStore(t)
	hits, err := s.KeywordSearch(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestKeywordSearch_DeletedChunksDropOut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := record("doc", "searchable vacation text", "doc", 0, nil)
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{rec}))

	_, err := s.DeleteDocument(ctx, "doc")
	require.NoError(t, err)

	hits, err := s.KeywordSearch(ctx, "vacation", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStats_Empty(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Chunks)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestFtsMatchExpression(t *testing.T) {
	assert.Equal(t, `"vacation" OR "policy"`, ftsMatchExpression("vacation policy"))
	assert.Equal(t, `"cant"`, ftsMatchExpression("can't"))
	assert.Equal(t, "", ftsMatchExpression("  "))
	assert.Equal(t, "", ftsMatchExpression(`"" ''`))
}
