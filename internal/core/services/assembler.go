package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// charsPerToken approximates token counts from character counts when
// bounding the context window.
const charsPerToken = 4

// DefaultMaxContextTokens is the default context window budget.
const DefaultMaxContextTokens = 3000

// Context is a token-budgeted context block with provenance.
type Context struct {
	// Text is the assembled context passed to the generator.
	Text string

	// Sources lists distinct source names in order of first appearance.
	Sources []string

	// ChunkCount is the number of chunks actually included, which may
	// be fewer than the retrieval results.
	ChunkCount int
}

// Assembler bounds and orders retrieved chunks into a context block.
type Assembler struct {
	maxTokens int
}

// NewAssembler creates an assembler with the given token budget.
func NewAssembler(maxTokens int) *Assembler {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxContextTokens
	}
	return &Assembler{maxTokens: maxTokens}
}

// Assemble appends chunks in rank order until the next chunk would
// exceed the budget. At least one chunk is always included, truncated
// to fit if it alone exceeds the budget. Source order is user-visible
// and stable for a given result set.
func (a *Assembler) Assemble(results []domain.RetrievalResult) Context {
	if len(results) == 0 {
		return Context{}
	}

	budget := a.maxTokens * charsPerToken
	var b strings.Builder
	var sources []string
	seen := make(map[string]bool)
	included := 0

	for _, res := range results {
		block := fmt.Sprintf("[%s]\n%s\n\n", res.SourceName, res.Chunk.Text)

		if b.Len()+len(block) > budget {
			if included == 0 {
				// The top chunk alone busts the budget: include it
				// truncated rather than answering from nothing.
				b.WriteString(truncate(block, budget))
				included++
				if !seen[res.SourceName] {
					seen[res.SourceName] = true
					sources = append(sources, res.SourceName)
				}
			}
			break
		}

		b.WriteString(block)
		included++
		if !seen[res.SourceName] {
			seen[res.SourceName] = true
			sources = append(sources, res.SourceName)
		}
	}

	return Context{
		Text:       strings.TrimRight(b.String(), "\n"),
		Sources:    sources,
		ChunkCount: included,
	}
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
