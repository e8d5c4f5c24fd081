package driven

// Tokenizer converts text to model tokens and back.
// Decoding each token on its own and concatenating the results must reproduce
// the encoded bytes, so window byte offsets can be recovered. A single token
// may hold part of a multibyte character.
type Tokenizer interface {
	// Name returns the tokenizer name (encoding) for logging.
	Name() string

	// Encode returns the token ids of text.
	Encode(text string) []int

	// Decode returns the text of tokens.
	Decode(tokens []int) string
}
