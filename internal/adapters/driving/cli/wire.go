package cli

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/extractor"
	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/index/sqlite"
	"github.com/custodia-labs/docqa-cli/internal/chunker"
	"github.com/custodia-labs/docqa-cli/internal/config"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docqa-cli/internal/core/services"
)

// Package-level wiring shared by all commands. Built lazily on first
// use; tests inject their own pipeline instead.
var (
	appCfg   config.Config
	appIndex *sqlite.Store
	pipeline driving.Pipeline
)

// getPipeline builds the pipeline from configuration on first call.
func getPipeline() (driving.Pipeline, error) {
	if pipeline != nil {
		return pipeline, nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	appCfg = cfg

	index, err := sqlite.NewStore(cfg.Index.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	appIndex = index

	embedder, err := ai.CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		index.Close()
		return nil, err
	}

	llm, err := ai.CreateLLMService(cfg.LLM)
	if err != nil {
		index.Close()
		return nil, err
	}

	ck, err := chunker.New(cfg.Chunking.MaxChunkSize, cfg.Chunking.Overlap,
		chunker.WithBoundaryTolerance(cfg.Chunking.BoundaryTolerance))
	if err != nil {
		index.Close()
		return nil, err
	}

	indexerOpts := []services.IndexerOption{
		services.WithBatchSize(cfg.Embedding.BatchSize),
	}
	if cfg.Embedding.RatePerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.Embedding.RatePerSecond), 1)
		indexerOpts = append(indexerOpts, services.WithEmbeddingLimiter(limiter))
	}

	synthOpts := []services.SynthesizerOption{
		services.WithGenerationBudget(cfg.LLM.MaxTokens),
	}
	if cfg.LLM.Temperature > 0 {
		synthOpts = append(synthOpts, services.WithTemperature(cfg.LLM.Temperature))
	}

	pipeline = services.NewPipeline(
		ck,
		services.NewIndexer(index, embedder, indexerOpts...),
		services.NewRetriever(index, embedder, services.WithVectorWeight(cfg.Retrieval.VectorWeight)),
		services.NewAssembler(cfg.Context.MaxTokens),
		services.NewSynthesizer(llm, synthOpts...),
		extractor.NewFile(),
		index,
		embedder,
		llm,
		services.WithTopK(cfg.Retrieval.TopK),
	)
	return pipeline, nil
}

// closePipeline releases wiring resources at process exit.
func closePipeline() {
	if appIndex != nil {
		appIndex.Close() //nolint:errcheck
	}
}
