// Package parser implements the parser that transforms Lox source code into
// an abstract syntax tree (AST), by recursive descent.
package parser

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/mna/nenuphar-lox/lang/ast"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/token"
)

// maxArgs is the maximum number of arguments a call expression or the
// maximum number of parameters a function may declare.
const maxArgs = 255

// ParseFiles is a helper function that parses the source files and returns
// the fileset along with the ASTs and any error encountered. The error, if
// non-nil, is guaranteed to be a scanner.ErrorList.
func ParseFiles(ctx context.Context, files ...string) (*token.FileSet, []*ast.Program, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var p parser
	res := make([]*ast.Program, 0, len(files))
	fs := token.NewFileSet()

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			p.errors.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		p.init(fs, file, b)
		prog := p.parseProgram()
		prog.Name = file
		res = append(res, prog)
	}
	p.errors.Sort()
	return fs, res, p.errors.Err()
}

// ParseProgram is a helper function that parses a single program from a
// slice of bytes and returns the AST and any error encountered. The source
// is added to the provided fset for position reporting under the name
// specified in filename. The error, if non-nil, is guaranteed to be a
// scanner.ErrorList.
func ParseProgram(ctx context.Context, fset *token.FileSet, filename string, src []byte) (*ast.Program, error) {
	var p parser
	p.init(fset, filename, src)
	prog := p.parseProgram()
	prog.Name = filename
	return prog, p.errors.Err()
}

// parser parses Lox source and generates an AST.
type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File

	// current token
	tok token.Token
	val token.Value

	// one-token lookahead, filled by peek and drained by the next advance
	hasPeek bool
	peekTok token.Token
	peekVal token.Value

	loopDepth int // nesting depth of enclosing loops, to validate break
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, -1, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.loopDepth = 0
	p.advance()
}

func (p *parser) advance() {
	if p.hasPeek {
		p.tok, p.val = p.peekTok, p.peekVal
		p.hasPeek = false
		return
	}
	p.tok = p.scanner.Scan(&p.val)
}

// peek returns the token following the current one without consuming the
// current token; the scan result is buffered so the following advance is
// just a swap. Used for the FUN IDENT vs. FUN "(" lookahead that
// disambiguates a function declaration from a lambda expression.
func (p *parser) peek() token.Token {
	if !p.hasPeek {
		p.peekTok = p.scanner.Scan(&p.peekVal)
		p.hasPeek = true
	}
	return p.peekTok
}

func (p *parser) check(toks ...token.Token) bool {
	return tokenIn(p.tok, toks...)
}

var errPanicMode = errors.New("panic")

// expect returns the position of the current token and consumes it if it is
// one of the expected tokens, otherwise it reports an error and panics with
// errPanicMode, which gets recovered at the statement level and
// synchronizes to the next safe point.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos

	var buf strings.Builder
	var ok bool
	for i, tok := range toks {
		if p.tok == tok {
			ok = true
			break
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(tok.GoString())
	}

	if !ok {
		var lbl string
		if len(toks) > 1 {
			lbl = "one of " + buf.String()
		} else {
			lbl = buf.String()
		}
		p.errorExpected(pos, lbl)
		panic(errPanicMode)
	}

	p.advance()
	return pos
}

func (p *parser) error(pos token.Pos, msg string) {
	lpos := p.file.Position(pos)
	p.errors.Add(lpos, msg)
}

func (p *parser) errorExpected(pos token.Pos, msg string) {
	msg = "expected " + msg
	if pos == p.val.Pos {
		// the error happened at the current position; make the message
		// more specific.
		switch lit := p.tok.Literal(p.val); lit {
		case "":
			msg += ", found " + p.tok.GoString()
		default:
			msg += ", found " + lit
		}
	}
	p.error(pos, msg)
}

// syncToks lists the tokens that make a safe point to resume parsing after
// an error: most start a new declaration or statement.
var syncToks = map[token.Token]bool{
	token.CLASS:  true,
	token.FUN:    true,
	token.VAR:    true,
	token.FOR:    true,
	token.IF:     true,
	token.WHILE:  true,
	token.PRINT:  true,
	token.RETURN: true,
	token.BREAK:  true,
}

// syncAfterError skips tokens until a semicolon (consumed) or a token that
// starts a new statement, and returns the position reached.
func (p *parser) syncAfterError() token.Pos {
	for p.tok != token.EOF {
		if p.tok == token.SEMICOLON {
			p.advance()
			return p.val.Pos
		}
		if syncToks[p.tok] {
			return p.val.Pos
		}
		p.advance()
	}
	return p.val.Pos
}

func tokenIn(t token.Token, toks ...token.Token) bool {
	for _, tok := range toks {
		if t == tok {
			return true
		}
	}
	return false
}
