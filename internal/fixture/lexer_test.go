package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexTokenKinds(t *testing.T) {
	toks, err := lex(`x 42 3.14 'a' "hi" -> == <=`)
	require.NoError(t, err)

	kinds := make([]tokKind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.kind)
	}
	assert.Equal(t, []tokKind{
		tokIdent, tokNat, tokReal, tokChar, tokString,
		tokPunct, tokPunct, tokPunct, tokEOF,
	}, kinds)
}

func TestLexGreedyTwoRuneOperators(t *testing.T) {
	toks, err := lex("a->b")
	require.NoError(t, err)
	require.Len(t, toks, 4) // a, ->, b, EOF
	assert.Equal(t, "->", toks[1].text)
}

func TestLexSkipsWhitespace(t *testing.T) {
	toks, err := lex("  x   y\t\nz  ")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, "x", toks[0].text)
	assert.Equal(t, "y", toks[1].text)
	assert.Equal(t, "z", toks[2].text)
}

func TestLexStripsBOM(t *testing.T) {
	src := string(append([]byte{0xEF, 0xBB, 0xBF}, []byte("café")...))
	toks, err := lex(src)
	require.NoError(t, err)
	require.Len(t, toks, 2) // café, EOF
	assert.Equal(t, "café", toks[0].text)
}

func TestLexNormalizesNFDToNFC(t *testing.T) {
	precomposed, err := lex("café") // U+00E9, already NFC
	require.NoError(t, err)
	decomposed, err := lex("café") // e + combining acute accent, NFD
	require.NoError(t, err)

	require.Len(t, precomposed, 2)
	require.Len(t, decomposed, 2)
	assert.Equal(t, precomposed[0].text, decomposed[0].text)
}
