package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa-cli/internal/chunker"
	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// Ensure Pipeline implements the driving port.
var _ driving.Pipeline = (*Pipeline)(nil)

// DefaultTopK is the default number of chunks retrieved per query.
const DefaultTopK = 5

// Pipeline is the request-scoped retrieval-and-synthesis pipeline.
// It holds no mutable state across requests; the hybrid index is the
// only shared resource and is externally owned.
type Pipeline struct {
	chunker     *chunker.Chunker
	indexer     *Indexer
	retriever   *Retriever
	assembler   *Assembler
	synthesizer *Synthesizer
	extractor   driven.Extractor
	index       driven.HybridIndex
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	topK        int
}

// PipelineOption configures the pipeline.
type PipelineOption func(*Pipeline)

// WithTopK sets how many chunks each query retrieves.
func WithTopK(k int) PipelineOption {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// NewPipeline assembles the pipeline from its components. The
// extractor may be nil when only Ingest (raw text) is used; embedder
// and llm may be nil, in which case queries run keyword-only and
// answers fall back respectively.
func NewPipeline(
	ck *chunker.Chunker,
	indexer *Indexer,
	retriever *Retriever,
	assembler *Assembler,
	synthesizer *Synthesizer,
	extractor driven.Extractor,
	index driven.HybridIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		chunker:     ck,
		indexer:     indexer,
		retriever:   retriever,
		assembler:   assembler,
		synthesizer: synthesizer,
		extractor:   extractor,
		index:       index,
		embedder:    embedder,
		llm:         llm,
		topK:        DefaultTopK,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest chunks, embeds and indexes raw text under documentID,
// replacing any previous chunks for that document. Empty text simply
// clears the document from the index.
func (p *Pipeline) Ingest(ctx context.Context, documentID, rawText string) (driving.IngestResult, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return driving.IngestResult{}, fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}

	cleaned := chunker.CleanText(rawText)
	chunks, err := p.chunker.Chunk(documentID, cleaned)
	if err != nil {
		return driving.IngestResult{}, fmt.Errorf("chunk %q: %w", documentID, err)
	}

	doc := domain.Document{
		ID:         documentID,
		SourceName: sourceName(documentID),
		IngestedAt: time.Now(),
	}

	indexed, err := p.indexer.Upsert(ctx, doc, chunks)
	if err != nil {
		return driving.IngestResult{DocumentID: documentID, ChunksIndexed: indexed}, err
	}

	logger.Info("Ingested %s: %d chunks", documentID, indexed)
	return driving.IngestResult{DocumentID: documentID, ChunksIndexed: indexed}, nil
}

// IngestPath ingests a file, or walks a directory ingesting every
// supported file. Failures and unsupported formats are reported
// per-document and never abort the batch.
func (p *Pipeline) IngestPath(ctx context.Context, path string) (driving.BatchIngestReport, error) {
	report := driving.BatchIngestReport{Failed: make(map[string]string)}

	if p.extractor == nil {
		return report, fmt.Errorf("%w: no extractor configured", domain.ErrConfiguration)
	}

	info, err := os.Stat(path)
	if err != nil {
		return report, fmt.Errorf("stat %q: %w", path, err)
	}

	if !info.IsDir() {
		p.ingestFile(ctx, path, &report)
		return report, nil
	}

	walkErr := filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.ingestFile(ctx, file, &report)
		return nil
	})
	if walkErr != nil {
		return report, fmt.Errorf("walk %q: %w", path, walkErr)
	}
	return report, nil
}

// ingestFile extracts and ingests one file into the report.
func (p *Pipeline) ingestFile(ctx context.Context, path string, report *driving.BatchIngestReport) {
	if !p.extractor.Supports(path) {
		report.Skipped = append(report.Skipped, path)
		return
	}

	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			report.Skipped = append(report.Skipped, path)
			return
		}
		logger.Warn("Extraction failed for %s: %v", path, err)
		report.Failed[path] = err.Error()
		return
	}

	res, err := p.Ingest(ctx, path, text)
	if err != nil {
		logger.Warn("Ingestion failed for %s: %v", path, err)
		report.Failed[path] = err.Error()
		return
	}
	report.Succeeded = append(report.Succeeded, res)
}

// Query answers a natural-language question over the corpus. Worst
// case it returns a fallback answer with zero sources; only an
// unreachable index or invalid input surface as errors.
func (p *Pipeline) Query(ctx context.Context, question string) (driving.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return driving.QueryResponse{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	requestID := uuid.New().String()
	logger.Section("Query " + requestID)
	logger.Debug("Question: %q", question)

	set, err := p.retriever.Retrieve(ctx, question, p.topK)
	if err != nil {
		return driving.QueryResponse{}, err
	}
	logger.Debug("Retrieved %d chunks (degraded=%t)", len(set.Results), set.Degraded)

	asm := p.assembler.Assemble(set.Results)
	logger.Debug("Context: %d chunks, %d sources", asm.ChunkCount, len(asm.Sources))

	answer := p.synthesizer.Synthesize(ctx, question, asm)

	return driving.QueryResponse{
		Answer:        answer.Text,
		Sources:       answer.Sources,
		ContextChunks: answer.ContextChunks,
		Degraded:      set.Degraded || answer.Degraded,
	}, nil
}

// Remove deletes a document's chunks from the index.
func (p *Pipeline) Remove(ctx context.Context, documentID string) (int, error) {
	return p.indexer.Remove(ctx, documentID)
}

// Health reports readiness. The pipeline is ready when the index is
// reachable; embedding and generation being down only degrade results.
func (p *Pipeline) Health(ctx context.Context) driving.Health {
	h := driving.Health{}

	if err := p.index.Ping(ctx); err != nil {
		h.Detail = err.Error()
		return h
	}
	h.Index = true
	h.Ready = true

	if stats, err := p.index.Stats(ctx); err == nil {
		h.Documents = stats.Documents
		h.Chunks = stats.Chunks
	}

	if p.embedder != nil {
		h.EmbeddingModel = p.embedder.ModelName()
		if p.embedder.Ping(ctx) == nil {
			h.Embedding = true
		}
	}
	if p.llm != nil {
		h.GeneratorModel = p.llm.ModelName()
		if p.llm.Ping(ctx) == nil {
			h.Generator = true
		}
	}
	return h
}

// sourceName derives the display name for citations from a document
// identifier: the base file name for paths, the ID itself otherwise.
func sourceName(documentID string) string {
	base := filepath.Base(documentID)
	if base == "." || base == string(filepath.Separator) {
		return documentID
	}
	return base
}
