package sysml

// Lexer scans SysML-subset source text into tokens. It is total: unknown
// characters are skipped without a diagnostic, unterminated strings and
// block comments run to end of input, and the scan always finishes with an
// EOF token. That leniency is a recorded decision, not an accident; see
// DESIGN.md before tightening it.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// NewLexer creates a lexer over the given source text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the entire input and returns the token sequence, comments
// included. Callers that feed a parser are expected to filter the comment
// tokens out first.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

// isPunct are the single-character structural tokens.
func isPunct(ch byte) bool {
	switch ch {
	case '{', '}', '[', ']', '(', ')', ':', ';', '=', ',', '.':
		return true
	}
	return false
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// advance consumes one byte, tracking line and column.
func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// Next returns the next token. After the input is exhausted it keeps
// returning EOF tokens.
func (l *Lexer) Next() Token {
	for l.pos < len(l.input) {
		ch := l.ch()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()

		case ch == '/' && l.peek() == '/':
			return l.lineComment()

		case ch == '/' && l.peek() == '*':
			return l.blockComment()

		case ch == '"':
			return l.stringLiteral()

		case isDigit(ch) || (ch == '.' && isDigit(l.peek())):
			return l.number()

		case isLetter(ch):
			return l.identOrKeyword()

		case isPunct(ch):
			tok := Token{Kind: TokenPunct, Text: string(ch), Line: l.line, Column: l.col}
			l.advance()
			return tok

		default:
			// Unrecognized character: drop it and keep scanning.
			l.advance()
		}
	}
	return Token{Kind: TokenEOF, Line: l.line, Column: l.col}
}

// lineComment consumes "//" to end of line, exclusive of the newline.
func (l *Lexer) lineComment() Token {
	line, col, start := l.line, l.col, l.pos
	for l.pos < len(l.input) && l.ch() != '\n' {
		l.advance()
	}
	return Token{Kind: TokenComment, Text: l.input[start:l.pos], Line: line, Column: col}
}

// blockComment consumes "/* ... */", or to end of input when unterminated.
// Embedded newlines keep the position counters accurate.
func (l *Lexer) blockComment() Token {
	line, col, start := l.line, l.col, l.pos
	l.advance() // '/'
	l.advance() // '*'
	for l.pos < len(l.input) {
		if l.ch() == '*' && l.peek() == '/' {
			l.advance()
			l.advance()
			break
		}
		l.advance()
	}
	return Token{Kind: TokenComment, Text: l.input[start:l.pos], Line: line, Column: col}
}

// stringLiteral consumes a double-quoted string. There is no escape handling:
// content runs to the next '"', or to end of input when unterminated.
func (l *Lexer) stringLiteral() Token {
	line, col := l.line, l.col
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.input) && l.ch() != '"' {
		l.advance()
	}
	text := l.input[start:l.pos]
	if l.pos < len(l.input) {
		l.advance() // closing quote
	}
	return Token{Kind: TokenString, Text: text, Line: line, Column: col}
}

// number consumes digits and '.' characters. Sequences like "1.2.3" come out
// as a single token; the grammar never validates decimal-point counts.
func (l *Lexer) number() Token {
	line, col, start := l.line, l.col, l.pos
	for l.pos < len(l.input) && (isDigit(l.ch()) || l.ch() == '.') {
		l.advance()
	}
	return Token{Kind: TokenNumber, Text: l.input[start:l.pos], Line: line, Column: col}
}

// identOrKeyword consumes an identifier and classifies it against the closed
// keyword set.
func (l *Lexer) identOrKeyword() Token {
	line, col, start := l.line, l.col, l.pos
	for l.pos < len(l.input) && (isLetter(l.ch()) || isDigit(l.ch())) {
		l.advance()
	}
	text := l.input[start:l.pos]
	kind := TokenIdent
	if IsKeyword(text) {
		kind = TokenKeyword
	}
	return Token{Kind: kind, Text: text, Line: line, Column: col}
}
