// Package tiktoken provides a BPE tokenizer backed by tiktoken-go.
package tiktoken

import (
	"fmt"

	tk "github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/nerstat/internal/core/domain"
	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// DefaultEncoding is the encoding used when none is configured.
const DefaultEncoding = "o200k_base"

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

// Tokenizer counts and windows text with a tiktoken encoding.
type Tokenizer struct {
	encoding string
	enc      *tk.Tiktoken
}

// New loads the named encoding. An empty name selects DefaultEncoding.
func New(encoding string) (*Tokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tk.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: tiktoken encoding %q: %w", domain.ErrUnsupportedType, encoding, err)
	}
	return &Tokenizer{encoding: encoding, enc: enc}, nil
}

// Name returns the encoding name.
func (t *Tokenizer) Name() string {
	return t.encoding
}

// Encode returns the token ids of text. Special tokens are treated as text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode returns the text of tokens.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
