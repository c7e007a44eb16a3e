package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEmpty(t, tok.String(), "token %d missing a string representation", tok)
	}
}

func TestTokenGoString(t *testing.T) {
	require.Equal(t, "';'", SEMICOLON.GoString())
	require.Equal(t, "'+='", PLUS_EQUAL.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
	require.Equal(t, "while", WHILE.GoString())
}

func TestIsKeyword(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.Equal(t, tok >= AND && tok < maxToken, tok.IsKeyword())
	}
}

func TestLookupIdent(t *testing.T) {
	for tok := AND; tok < maxToken; tok++ {
		require.Equal(t, tok, LookupIdent(tok.String()))
	}
	require.Equal(t, IDENT, LookupIdent("orange"))
	require.Equal(t, IDENT, LookupIdent("printer"))
}

func TestLiteral(t *testing.T) {
	val := Value{Raw: "x", Str: "hello", Num: 3.5}

	require.Equal(t, "x", IDENT.Literal(val))
	require.Equal(t, "hello", STRING.Literal(val))
	require.Equal(t, val.Raw, NUMBER.Literal(val))
	require.Equal(t, "", SEMICOLON.Literal(val))
	require.Equal(t, "", AND.Literal(val))
}
