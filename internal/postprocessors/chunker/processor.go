// Package chunker splits long texts into overlapping token windows.
package chunker

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// DefaultMaxTokens is the default number of tokens per window.
const DefaultMaxTokens = 400

// DefaultOverlap is the default number of tokens shared by adjacent windows.
const DefaultOverlap = 50

// Ensure Processor implements the interface.
var _ driven.TextSplitter = (*Processor)(nil)

// Processor splits text into windows of at most maxTokens tokens.
// It implements the TextSplitter interface.
type Processor struct {
	tokenizer driven.Tokenizer
	maxTokens int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the window size in tokens.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlap sets the overlap between windows in tokens.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker using tokenizer to measure text.
func New(tokenizer driven.Tokenizer, opts ...Option) *Processor {
	p := &Processor{
		tokenizer: tokenizer,
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed window size
	if p.overlap >= p.maxTokens {
		p.overlap = p.maxTokens / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// MaxTokens returns the window size in tokens.
func (p *Processor) MaxTokens() int {
	return p.maxTokens
}

// Split returns windows covering text. Texts within maxTokens yield a single
// window spanning the whole text; empty text yields none.
//
// Window boundaries are snapped back to rune starts, so every window is a
// substring of text and []rune(text)[Start:End] equals its Text even when a
// byte-level BPE token splits a character.
func (p *Processor) Split(ctx context.Context, text string) ([]domain.TextWindow, error) {
	if text == "" {
		return nil, nil
	}

	tokens := p.tokenizer.Encode(text)
	n := len(tokens)
	if n <= p.maxTokens {
		return []domain.TextWindow{{
			Index: 0,
			Text:  text,
			Start: 0,
			End:   utf8.RuneCountInString(text),
		}}, nil
	}

	offsets := p.byteOffsets(tokens, len(text))
	step := p.maxTokens - p.overlap
	windows := make([]domain.TextWindow, 0, n/step+1)

	for start := 0; ; start += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + p.maxTokens
		if end > n {
			end = n
		}

		startByte := runeFloor(text, offsets[start])
		endByte := runeFloor(text, offsets[end])
		if endByte <= startByte {
			endByte = runeCeil(text, startByte+1)
		}

		windowText := text[startByte:endByte]
		charStart := utf8.RuneCountInString(text[:startByte])
		windows = append(windows, domain.TextWindow{
			Index: len(windows),
			Text:  windowText,
			Start: charStart,
			End:   charStart + utf8.RuneCountInString(windowText),
		})

		if end == n {
			break
		}
	}

	return windows, nil
}

// byteOffsets returns the byte offset in text at which each token starts,
// plus a final entry for the end. Offsets are capped at size.
func (p *Processor) byteOffsets(tokens []int, size int) []int {
	offsets := make([]int, len(tokens)+1)
	pos := 0
	for i, tok := range tokens {
		offsets[i] = min(pos, size)
		pos += len(p.tokenizer.Decode([]int{tok}))
	}
	offsets[len(tokens)] = size
	return offsets
}

// runeFloor moves i back to the start of the rune containing it.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves i forward to the next rune start.
func runeCeil(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return min(i, len(s))
}
