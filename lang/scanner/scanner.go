// The error aggregation types and the overall scan loop are adapted from the
// Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	"bytes"
	"context"
	"fmt"
	"go/scanner"
	"os"
	"unicode/utf8"

	"github.com/mna/nenuphar-lox/lang/token"
)

type (
	// Error is a single compile-time error with a source position, reused
	// from the standard library so the parser and resolver can aggregate into
	// the same ErrorList.
	Error = scanner.Error
	// ErrorList aggregates Errors, sorting and deduplicating them for
	// display.
	ErrorList = scanner.ErrorList
)

// PrintError prints an error, or the errors in an ErrorList, one per line,
// to w.
var PrintError = scanner.PrintError

// TokenAndValue combines a token's kind with its associated value.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFiles tokenizes the given source files, returning the FileSet they
// were registered in, the tokens produced for each (in the same order as
// files), and any lexical errors encountered. The returned error, if
// non-nil, is an ErrorList.
func ScanFiles(_ context.Context, files ...string) (*token.FileSet, [][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
	)

	fs := token.NewFileSet()
	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		f := fs.AddFile(file, -1, len(b))
		s.Init(f, b, el.Add)
		for {
			tok := s.Scan(&tokVal)
			tokensByFile[i] = append(tokensByFile[i], TokenAndValue{Token: tok, Value: tokVal})
			if tok == token.EOF {
				break
			}
		}
	}
	el.Sort()
	return fs, tokensByFile, el.Err()
}

// Scanner tokenizes Lox source for the parser to consume.
type Scanner struct {
	// immutable state after Init
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	// mutable scanning state
	cur  rune // current character, -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset just past cur
}

// Init prepares the scanner to tokenize a new file. It panics if the file's
// registered size does not match len(src).
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}

	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

// peek returns the byte following the current character without advancing
// the scanner, or 0 at EOF.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next rune into s.cur.
func (s *Scanner) advance() {
	// s.off is still the offset of the previous character here: a newline is
	// recorded at its own offset, the line boundary File.Position expects.
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}

	s.off = s.roff

	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

// advanceIf advances past the current char if it matches any of matches.
func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token, filling tokVal with its payload.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.LookupIdent(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDigit(cur):
		lit := s.number()
		*tokVal = token.Value{Raw: lit, Num: parseNumber(lit), Pos: pos}
		tok = token.NUMBER

	case cur == '"':
		lit, str := s.shortString()
		*tokVal = token.Value{Raw: lit, Str: str, Pos: pos}
		tok = token.STRING

	default:
		s.advance() // always make progress
		switch cur {
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case ',':
			tok = token.COMMA
		case '.':
			tok = token.DOT
		case ';':
			tok = token.SEMICOLON
		case '?':
			tok = token.QUESTION
		case ':':
			tok = token.COLON
		case '!':
			tok = token.BANG
			if s.advanceIf('=') {
				tok = token.BANG_EQUAL
			}
		case '=':
			tok = token.EQUAL
			if s.advanceIf('=') {
				tok = token.EQUAL_EQUAL
			}
		case '>':
			tok = token.GREATER
			if s.advanceIf('=') {
				tok = token.GREATER_EQUAL
			}
		case '<':
			tok = token.LESS
			if s.advanceIf('=') {
				tok = token.LESS_EQUAL
			}
		case '+':
			tok = token.PLUS
			if s.advanceIf('=') {
				tok = token.PLUS_EQUAL
			}
		case '-':
			tok = token.MINUS
			if s.advanceIf('=') {
				tok = token.MINUS_EQUAL
			}
		case '*':
			tok = token.STAR
			if s.advanceIf('=') {
				tok = token.STAR_EQUAL
			}
		case '/':
			tok = token.SLASH
			if s.advanceIf('=') {
				tok = token.SLASH_EQUAL
			}
		case -1:
			tok = token.EOF
		default:
			s.errorf(start, "unexpected character %#U", cur)
			tok = token.ILLEGAL
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

// skipWhitespaceAndComments consumes whitespace and `//` line comments;
// Lox has no block-comment syntax.
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\r' || rn == '\n'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_'
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9'
}
