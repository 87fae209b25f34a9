package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockIndex implements driven.HybridIndex with configurable hits and
// call tracking.
type mockIndex struct {
	mu sync.Mutex

	records map[string]domain.IndexRecord

	vectorHits  []driven.VectorHit
	keywordHits []driven.KeywordHit

	vectorErr  error
	keywordErr error
	upsertErr  error
	deleteErr  error
	pingErr    error

	// upsertErrAfter fails Upsert once the given number of calls have
	// succeeded. Zero disables it.
	upsertErrAfter int

	upsertCalls [][]domain.IndexRecord
	deleted     []string
}

func newMockIndex() *mockIndex {
	return &mockIndex{records: make(map[string]domain.IndexRecord)}
}

func (m *mockIndex) Upsert(_ context.Context, records []domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.upsertErrAfter > 0 && len(m.upsertCalls) >= m.upsertErrAfter {
		return domain.ErrIndexUnavailable
	}
	m.upsertCalls = append(m.upsertCalls, records)
	for _, rec := range records {
		m.records[rec.Chunk.ID] = rec
	}
	return nil
}

func (m *mockIndex) DeleteDocument(_ context.Context, documentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	removed := 0
	for id, rec := range m.records {
		if rec.Chunk.DocumentID == documentID {
			delete(m.records, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockIndex) VectorSearch(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.vectorErr != nil {
		return nil, m.vectorErr
	}
	if k > len(m.vectorHits) {
		return m.vectorHits, nil
	}
	return m.vectorHits[:k], nil
}

func (m *mockIndex) KeywordSearch(_ context.Context, _ string, k int) ([]driven.KeywordHit, error) {
	if m.keywordErr != nil {
		return nil, m.keywordErr
	}
	if k > len(m.keywordHits) {
		return m.keywordHits, nil
	}
	return m.keywordHits[:k], nil
}

func (m *mockIndex) Record(_ context.Context, chunkID string) (*domain.IndexRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (m *mockIndex) Stats(_ context.Context) (driven.IndexStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make(map[string]bool)
	for _, rec := range m.records {
		docs[rec.Chunk.DocumentID] = true
	}
	return driven.IndexStats{Documents: len(docs), Chunks: len(m.records)}, nil
}

func (m *mockIndex) Ping(_ context.Context) error { return m.pingErr }
func (m *mockIndex) Close() error                 { return nil }

// addRecord seeds a stored record for hydration.
func (m *mockIndex) addRecord(documentID, text, sourceName string, seq int) domain.IndexRecord {
	chunk := domain.Chunk{
		ID:            domain.ChunkID(documentID, seq*100),
		DocumentID:    documentID,
		Text:          text,
		StartOffset:   seq * 100,
		EndOffset:     seq*100 + len(text),
		SequenceIndex: seq,
	}
	rec := domain.IndexRecord{Chunk: chunk, SourceName: sourceName}
	m.mu.Lock()
	m.records[chunk.ID] = rec
	m.mu.Unlock()
	return rec
}

// mockEmbedder implements driven.EmbeddingService.
type mockEmbedder struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error

	// failFirst fails this many calls before succeeding, for retry
	// tests.
	failFirst int

	calls int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failFirst > 0 {
		m.failFirst--
		return nil, domain.ErrEmbeddingUnavailable
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := m.embedding
		if vec == nil {
			vec = []float32{0.1, 0.2, 0.3}
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.embedErr }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService.
type mockLLM struct {
	mu       sync.Mutex
	response string
	genErr   error

	failFirst int
	calls     int
	prompts   []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.failFirst > 0 {
		m.failFirst--
		return "", domain.ErrGenerationUnavailable
	}
	if m.genErr != nil {
		return "", m.genErr
	}
	if m.response == "" {
		return "mock answer", nil
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return m.genErr }
func (m *mockLLM) Close() error                 { return nil }

// mockExtractor implements driven.Extractor over an in-memory map of
// path -> text.
type mockExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (m *mockExtractor) Extract(_ context.Context, path string) (string, error) {
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	text, ok := m.texts[path]
	if !ok {
		return "", domain.ErrExtraction
	}
	return text, nil
}

func (m *mockExtractor) Supports(path string) bool {
	return strings.HasSuffix(path, ".txt") || strings.HasSuffix(path, ".md")
}
