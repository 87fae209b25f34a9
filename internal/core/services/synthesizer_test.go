package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

func TestSynthesize_GroundedAnswer(t *testing.T) {
	llm := &mockLLM{response: "You get 25 days of vacation. (vacation.md)"}
	s := NewSynthesizer(llm)

	asm := Context{
		Text:       "[vacation.md]\nVacation policy grants 25 days.",
		Sources:    []string{"vacation.md"},
		ChunkCount: 1,
	}

	ans := s.Synthesize(context.Background(), "How many vacation days?", asm)
	assert.Equal(t, "You get 25 days of vacation. (vacation.md)", ans.Text)
	assert.Equal(t, []string{"vacation.md"}, ans.Sources)
	assert.Equal(t, 1, ans.ContextChunks)
	assert.False(t, ans.Degraded)

	// The prompt carries the context and the question verbatim.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Vacation policy grants 25 days.")
	assert.Contains(t, llm.prompts[0], "How many vacation days?")
	assert.Contains(t, llm.prompts[0], "If the answer is not in the context")
}

func TestSynthesize_RetriesTransientFailure(t *testing.T) {
	llm := &mockLLM{response: "recovered", failFirst: 2}
	s := NewSynthesizer(llm, WithGenerationRetry(noSleepRetry(3)))

	asm := Context{Text: "[doc]\ncontent", Sources: []string{"doc"}, ChunkCount: 1}
	ans := s.Synthesize(context.Background(), "q", asm)

	assert.Equal(t, "recovered", ans.Text)
	assert.Equal(t, 3, llm.calls)
	assert.False(t, ans.Degraded)
}

func TestSynthesize_PersistentFailureFallsBack(t *testing.T) {
	llm := &mockLLM{genErr: domain.ErrGenerationUnavailable}
	s := NewSynthesizer(llm, WithGenerationRetry(noSleepRetry(3)))

	asm := Context{Text: "[doc]\ncontent", Sources: []string{"doc"}, ChunkCount: 1}
	ans := s.Synthesize(context.Background(), "q", asm)

	assert.Equal(t, FallbackAnswer, ans.Text)
	assert.True(t, ans.Degraded)
	// Citations still come from retrieval, even for the fallback.
	assert.Equal(t, []string{"doc"}, ans.Sources)
	assert.Equal(t, 1, ans.ContextChunks)
	assert.Equal(t, 3, llm.calls)
}

func TestSynthesize_EmptyContext(t *testing.T) {
	llm := &mockLLM{}
	s := NewSynthesizer(llm)

	ans := s.Synthesize(context.Background(), "q", Context{})
	assert.Equal(t, noContextAnswer, ans.Text)
	assert.Empty(t, ans.Sources)
	assert.Zero(t, ans.ContextChunks)
	// The generator is never invoked without context.
	assert.Zero(t, llm.calls)
}
