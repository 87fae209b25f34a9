// Package chunker splits raw document text into overlapping,
// sentence-aware segments for indexing.
package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultOverlap = 200

// DefaultBoundaryTolerance is how far behind a window edge the chunker
// looks for a sentence boundary before falling back to a hard cut.
const DefaultBoundaryTolerance = 80

// Chunker splits text with a sliding window, preferring to cut at
// sentence-ending punctuation near each window edge.
//
// Chunking is fully deterministic: identical input and parameters
// always produce the identical chunk sequence. Chunk IDs derive from
// the document ID and start offset, so idempotent re-ingestion yields
// the same IDs.
type Chunker struct {
	maxChunkSize int
	overlap      int
	tolerance    int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithBoundaryTolerance sets the sentence-boundary search window in
// characters.
func WithBoundaryTolerance(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.tolerance = n
		}
	}
}

// New creates a chunker. maxChunkSize must exceed overlap, and the
// boundary tolerance must leave the window able to advance.
func New(maxChunkSize, overlap int, opts ...Option) (*Chunker, error) {
	c := &Chunker{
		maxChunkSize: maxChunkSize,
		overlap:      overlap,
		tolerance:    DefaultBoundaryTolerance,
	}
	for _, opt := range opts {
		opt(c)
	}

	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", domain.ErrConfiguration, maxChunkSize)
	}
	if overlap < 0 || overlap >= maxChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrConfiguration, overlap, maxChunkSize)
	}
	if c.tolerance >= maxChunkSize-overlap {
		// A tolerance that large could retract past the window step and
		// stall the scan.
		c.tolerance = (maxChunkSize - overlap) / 2
	}
	return c, nil
}

// Chunk splits text into an ordered sequence of validated chunks.
// Empty text yields zero chunks, not an error. Whitespace-only chunks
// are discarded; surviving chunks are numbered consecutively.
func (c *Chunker) Chunk(documentID, text string) ([]domain.Chunk, error) {
	if text == "" {
		return nil, nil
	}

	var chunks []domain.Chunk
	seq := 0
	start := 0

	for start < len(text) {
		end := start + c.maxChunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = runeStart(text, end)
			if cut := c.boundaryCut(text, start, end); cut > start {
				end = cut
			}
		}

		if strings.TrimSpace(text[start:end]) != "" {
			chunk, err := domain.NewChunk(documentID, text[start:end], start, end, seq)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
			seq++
		}

		if end >= len(text) {
			break
		}

		next := runeStart(text, end-c.overlap)
		if next <= start {
			// Boundary retraction ate the whole step; fall back to the
			// hard window advance to guarantee progress.
			next = runeStart(text, start+c.maxChunkSize-c.overlap)
		}
		if next <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			next = start + size
		}
		start = next
	}

	return chunks, nil
}

// boundaryCut searches backward from the hard window edge for the
// nearest sentence boundary within tolerance. Returns the cut position
// (exclusive end), or 0 when no boundary was found.
func (c *Chunker) boundaryCut(text string, start, end int) int {
	low := end - c.tolerance
	if low < start+1 {
		low = start + 1
	}
	for i := end - 1; i >= low; i-- {
		switch text[i] {
		case '.', '!', '?':
			if i+1 >= len(text) || isSpace(text[i+1]) {
				return i + 1
			}
		case '\n':
			if i > 0 && text[i-1] == '\n' {
				return i + 1
			}
		}
	}
	return 0
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// runeStart backs a byte index up to the nearest rune start so window
// cuts never split a multi-byte character.
func runeStart(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

var (
	multiBlank = regexp.MustCompile(`\n\s*\n\s*\n+`)
	multiSpace = regexp.MustCompile(` +`)
)

// CleanText normalises raw extracted text before chunking: runs of
// blank lines collapse to one, repeated spaces collapse, and line
// edges are trimmed. Applied once at ingestion so chunk offsets refer
// to the cleaned text.
func CleanText(text string) string {
	text = multiBlank.ReplaceAllString(text, "\n\n")
	text = multiSpace.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
