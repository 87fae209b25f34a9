package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// answerPrompt instructs the generator to answer strictly from the
// supplied context and to say so when the context is insufficient.
const answerPrompt = `You are an intelligent assistant helping users find information from company documents.
Use the following context to answer the question. If the answer is not in the context, say "I don't have enough information to answer that question."

Context:
%s

Question: %s

Provide a clear, detailed answer based on the context. Always cite the sources you used.`

// FallbackAnswer is returned when generation is persistently
// unavailable. The pipeline never crashes the caller over it.
const FallbackAnswer = "Unable to process the question. Please try again later."

// noContextAnswer is returned when retrieval found nothing to ground
// an answer in.
const noContextAnswer = "I don't have enough information to answer that question."

// Synthesizer builds a grounded prompt, invokes the generator, and
// post-processes the result into an answer with citations.
//
// Citations come verbatim from the assembled context, never from the
// generated prose, so they are always grounded in retrieved material.
type Synthesizer struct {
	llm         driven.LLMService
	maxTokens   int
	temperature float64
	retry       RetryPolicy
}

// SynthesizerOption configures the synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithGenerationBudget bounds the generator's output tokens.
func WithGenerationBudget(maxTokens int) SynthesizerOption {
	return func(s *Synthesizer) {
		if maxTokens > 0 {
			s.maxTokens = maxTokens
		}
	}
}

// WithTemperature fixes the generation temperature.
func WithTemperature(t float64) SynthesizerOption {
	return func(s *Synthesizer) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithGenerationRetry overrides the generation retry policy.
func WithGenerationRetry(p RetryPolicy) SynthesizerOption {
	return func(s *Synthesizer) { s.retry = p }
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(llm driven.LLMService, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		llm:         llm,
		maxTokens:   512,
		temperature: 0,
		retry:       DefaultGenerationRetry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize answers the question from the assembled context. On
// persistent generator failure it returns a degraded fallback answer
// rather than an error; sources and chunk count are attached verbatim
// either way.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, asm Context) domain.Answer {
	if strings.TrimSpace(asm.Text) == "" {
		return domain.Answer{
			Text:          noContextAnswer,
			Sources:       []string{},
			ContextChunks: 0,
		}
	}

	if s.llm == nil {
		return domain.Answer{
			Text:          FallbackAnswer,
			Sources:       asm.Sources,
			ContextChunks: asm.ChunkCount,
			Degraded:      true,
		}
	}

	prompt := fmt.Sprintf(answerPrompt, asm.Text, question)

	var text string
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var genErr error
		text, genErr = s.llm.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   s.maxTokens,
			Temperature: s.temperature,
		})
		return genErr
	})
	if err != nil {
		logger.Warn("Generation unavailable after retries: %v", err)
		return domain.Answer{
			Text:          FallbackAnswer,
			Sources:       asm.Sources,
			ContextChunks: asm.ChunkCount,
			Degraded:      true,
		}
	}

	return domain.Answer{
		Text:          strings.TrimSpace(text),
		Sources:       asm.Sources,
		ContextChunks: asm.ChunkCount,
	}
}
