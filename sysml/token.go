// Package sysml implements the textual front end for a subset of the SysML
// v2 notation: a lexer producing a flat token sequence and a recursive-descent
// parser emitting a model.Model. Parsing is a single synchronous pass; each
// Parse call builds its own cursor, id counter and model, so independent
// calls are safe to run concurrently.
package sysml

import "fmt"

// TokenKind classifies a lexer token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenKeyword
	TokenIdent
	TokenString
	TokenNumber
	TokenPunct
	TokenComment
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenKeyword:
		return "keyword"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenPunct:
		return "punct"
	case TokenComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Token is a single classified lexeme with its 1-based source position.
// String tokens carry the content without the surrounding quotes; comment
// tokens carry the raw text including delimiters.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d:%d}", t.Kind, t.Text, t.Line, t.Column)
}

// keywords is the closed keyword set of the supported grammar subset. An
// identifier matching one of these is always classified as a keyword; the
// grammar has no escaping mechanism for keyword-shaped names.
var keywords = map[string]bool{
	"package":     true,
	"part":        true,
	"def":         true,
	"port":        true,
	"item":        true,
	"requirement": true,
	"state":       true,
	"transition":  true,
	"attribute":   true,
	"interface":   true,
	"connect":     true,
	"bind":        true,
	"entry":       true,
	"then":        true,
	"first":       true,
	"accept":      true,
	"action":      true,
	"inout":       true,
	"in":          true,
	"out":         true,
	"id":          true,
	"text":        true,
}

// IsKeyword reports whether s belongs to the closed keyword set.
func IsKeyword(s string) bool { return keywords[s] }
