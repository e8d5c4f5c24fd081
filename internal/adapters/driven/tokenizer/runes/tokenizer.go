// Package runes provides a tokenizer that treats every character as one token.
// Window offsets computed from it are exact, which the BPE tokenizer cannot
// guarantee for multi-byte text.
package runes

import "github.com/custodia-labs/nerstat/internal/core/ports/driven"

// Name is the tokenizer name used in configuration.
const Name = "rune"

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = Tokenizer{}

// Tokenizer maps each rune to a token whose id is the code point.
type Tokenizer struct{}

// New returns a rune tokenizer.
func New() Tokenizer {
	return Tokenizer{}
}

// Name returns "rune".
func (Tokenizer) Name() string {
	return Name
}

// Encode returns the code points of text.
func (Tokenizer) Encode(text string) []int {
	tokens := make([]int, 0, len(text))
	for _, r := range text {
		tokens = append(tokens, int(r))
	}
	return tokens
}

// Decode returns the string of code points.
func (Tokenizer) Decode(tokens []int) string {
	rs := make([]rune, len(tokens))
	for i, t := range tokens {
		rs[i] = rune(t)
	}
	return string(rs)
}
