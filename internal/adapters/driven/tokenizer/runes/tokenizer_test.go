package runes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_EncodeDecode(t *testing.T) {
	tok := New()
	text := "東京タワーへ行く"

	tokens := tok.Encode(text)

	assert.Len(t, tokens, 8)
	assert.Equal(t, text, tok.Decode(tokens))
	assert.Equal(t, "タワー", tok.Decode(tokens[2:5]))
	assert.Equal(t, "rune", tok.Name())
}

func TestTokenizer_Empty(t *testing.T) {
	tok := New()

	assert.Empty(t, tok.Encode(""))
	assert.Equal(t, "", tok.Decode(nil))
}
