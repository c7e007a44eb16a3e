// Package ast defines the types used to represent the abstract syntax tree
// (AST) of a Lox program: expressions, statements and the top-level
// program. Each node carries its own source span and, where the resolver
// has something to say about it, a *Binding recording how a name
// reference was statically resolved.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/nenuphar-lox/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements the fmt.Formatter interface so it can print a
	// description of itself. The only supported verbs are 'v' and 's'. The
	// '#' flag prints count information about child nodes. A width can be
	// set to define the number of runes to print for the description - by
	// default it is padded with spaces on the left if shorter, or truncated
	// if longer; the '-' flag pads on the right instead, and '+' disables
	// padding altogether.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	stmt()
}

// Program is the root of a parsed source file: a flat sequence of top-level
// declarations and statements.
type Program struct {
	Name  string // source file name, may be empty (e.g. REPL input)
	Stmts []Stmt
	EOF   token.Pos
}

func (n *Program) Format(f fmt.State, verb rune) {
	format(f, verb, n, "program", map[string]int{"stmts": len(n.Stmts)})
}

func (n *Program) Span() (start, end token.Pos) {
	if len(n.Stmts) == 0 {
		return n.EOF, n.EOF
	}
	start, _ = n.Stmts[0].Span()
	_, end = n.Stmts[len(n.Stmts)-1].Span()
	return start, end
}

func (n *Program) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
