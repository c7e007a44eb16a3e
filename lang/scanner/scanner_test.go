package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []token.Value, []string) {
	t.Helper()

	var (
		s   scanner.Scanner
		el  scanner.ErrorList
		toks []token.Token
		vals []token.Value
	)
	fs := token.NewFileSet()
	f := fs.AddFile("test.lox", -1, len(src))
	s.Init(f, []byte(src), el.Add)

	var v token.Value
	for {
		tok := s.Scan(&v)
		toks = append(toks, tok)
		vals = append(vals, v)
		if tok == token.EOF {
			break
		}
	}

	var msgs []string
	for _, e := range el {
		msgs = append(msgs, e.Msg)
	}
	return toks, vals, msgs
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, _, errs := scanAll(t, "(){},.;?:!!====>=<<=+-*/")
	require.Empty(t, errs)
	assert.Equal(t, []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.COMMA,
		token.DOT, token.SEMICOLON, token.QUESTION, token.COLON,
		token.BANG, token.BANG_EQUAL, token.EQUAL_EQUAL, token.EQUAL,
		token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EOF,
	}, toks)
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, vals, errs := scanAll(t, "and class orchid while x1")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.AND, token.CLASS, token.IDENT, token.WHILE, token.IDENT, token.EOF}, toks)
	assert.Equal(t, "orchid", vals[2].Raw)
	assert.Equal(t, "x1", vals[4].Raw)
}

func TestScanNumbers(t *testing.T) {
	toks, vals, errs := scanAll(t, "123 45.67")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.NUMBER, token.NUMBER, token.EOF}, toks)
	assert.Equal(t, 123.0, vals[0].Num)
	assert.Equal(t, 45.67, vals[1].Num)
}

func TestScanString(t *testing.T) {
	toks, vals, errs := scanAll(t, `"hello, world"`)
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.STRING, token.EOF}, toks)
	assert.Equal(t, "hello, world", vals[0].Str)
}

func TestScanUnterminatedString(t *testing.T) {
	toks, _, errs := scanAll(t, `"oops`)
	require.Equal(t, []token.Token{token.STRING, token.EOF}, toks)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "must end with double quotes")
}

func TestScanLineComment(t *testing.T) {
	toks, _, errs := scanAll(t, "var x = 1; // ignored to end of line\nvar y = 2;")
	require.Empty(t, errs)
	assert.Equal(t, []token.Token{
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.VAR, token.IDENT, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.EOF,
	}, toks)
}

func TestScanIllegalCharacter(t *testing.T) {
	toks, _, errs := scanAll(t, "@")
	require.Equal(t, []token.Token{token.ILLEGAL, token.EOF}, toks)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "unexpected character")
}
