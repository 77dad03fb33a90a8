package sysml

import (
	"fmt"

	"github.com/david-basis/archmodel/model"
)

// ParseError reports the first malformed construct encountered. The parser
// never recovers past it: the whole Parse call fails and no model is
// returned.
type ParseError struct {
	WantKind TokenKind
	WantText string // exact literal, when one was required
	GotKind  TokenKind
	GotText  string
	Line     int
}

func (e *ParseError) Error() string {
	if e.WantText != "" {
		return fmt.Sprintf("line %d: expected %v %q, got %v %q",
			e.Line, e.WantKind, e.WantText, e.GotKind, e.GotText)
	}
	return fmt.Sprintf("line %d: expected %v, got %v %q",
		e.Line, e.WantKind, e.GotKind, e.GotText)
}

// parser holds the per-call state: token cursor, id counter and the model
// under construction. Parse builds a fresh parser every time, so nothing
// leaks between calls.
type parser struct {
	tokens []Token
	pos    int
	nextID int
	m      *model.Model
}

// Parse turns source text into a model. Grammar handling is two-token
// lookahead recursive descent: where two productions share a leading keyword
// (port vs. port def, part vs. part def, ...) the token after it decides.
func Parse(src string) (*model.Model, error) {
	raw := Tokenize(src)
	tokens := make([]Token, 0, len(raw))
	for _, t := range raw {
		if t.Kind != TokenComment {
			tokens = append(tokens, t)
		}
	}
	p := &parser{tokens: tokens, m: model.New()}
	if err := p.parseFile(); err != nil {
		return nil, err
	}
	return p.m, nil
}

// --- cursor helpers ---

func (p *parser) cur() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1] // trailing EOF
}

func (p *parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() { p.pos++ }

func (p *parser) atKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == TokenKeyword && t.Text == kw
}

func (p *parser) peekKeyword(kw string) bool {
	t := p.peek()
	return t.Kind == TokenKeyword && t.Text == kw
}

func (p *parser) atPunct(s string) bool {
	t := p.cur()
	return t.Kind == TokenPunct && t.Text == s
}

// expect consumes the current token when it matches the required kind (and
// literal text, when non-empty); otherwise it returns a ParseError carrying
// what was required, what was found, and the line it was found on.
func (p *parser) expect(kind TokenKind, text string) (Token, error) {
	t := p.cur()
	if t.Kind != kind || (text != "" && t.Text != text) {
		return Token{}, &ParseError{
			WantKind: kind,
			WantText: text,
			GotKind:  t.Kind,
			GotText:  t.Text,
			Line:     t.Line,
		}
	}
	p.next()
	return t, nil
}

func (p *parser) expectIdent() (string, error) {
	t, err := p.expect(TokenIdent, "")
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

func (p *parser) expectPunct(s string) error {
	_, err := p.expect(TokenPunct, s)
	return err
}

// newElement allocates the next id, registers the element in the model and
// links it under parent. The ports/parts and states/transitions convenience
// lists are maintained here so they always stay ordered subsets of Children.
func (p *parser) newElement(kind model.Kind, name string, parent *model.Element) *model.Element {
	id := fmt.Sprintf("e%d", p.nextID)
	p.nextID++

	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}
	el := p.m.Add(model.NewElement(id, kind, name, parentID))

	if parent != nil {
		parent.Children = append(parent.Children, id)
		switch {
		case parent.Kind == model.KindPartDef && kind == model.KindPort:
			parent.Ports = append(parent.Ports, id)
		case parent.Kind == model.KindPartDef && kind == model.KindPart:
			parent.Parts = append(parent.Parts, id)
		case parent.Kind == model.KindStateDef && kind == model.KindState:
			parent.States = append(parent.States, id)
		case parent.Kind == model.KindStateDef && kind == model.KindTransition:
			parent.Transitions = append(parent.Transitions, id)
		}
	}
	return el
}

// --- productions ---

// parseFile scans for the opening package; everything outside it is
// discarded a token at a time. Only the first package becomes the root.
func (p *parser) parseFile() error {
	for p.cur().Kind != TokenEOF {
		if p.atKeyword("package") && p.m.Root == "" {
			if err := p.parsePackage(); err != nil {
				return err
			}
			continue
		}
		p.next()
	}
	return nil
}

func (p *parser) parsePackage() error {
	p.next() // package
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	pkg := p.newElement(model.KindPackage, name, nil)
	p.m.Root = pkg.ID

	if p.atPunct("{") {
		p.next()
		if err := p.parseBody(pkg); err != nil {
			return err
		}
		return p.expectPunct("}")
	}
	return p.expectPunct(";")
}

// parseBody dispatches the productions allowed inside a package or part
// definition body until the closing brace. Unrecognized tokens are dropped
// one at a time; that is the only recovery the grammar has, and it is purely
// local, not grammar-aware.
func (p *parser) parseBody(parent *model.Element) error {
	for {
		if p.cur().Kind == TokenEOF || p.atPunct("}") {
			return nil
		}

		var err error
		switch {
		case p.atKeyword("item") && p.peekKeyword("def"):
			err = p.parseItemDef(parent)
		case p.atKeyword("port") && p.peekKeyword("def"):
			err = p.parsePortDef(parent)
		case p.atKeyword("port"):
			err = p.parsePortUsage(parent)
		case p.atKeyword("part") && p.peekKeyword("def"):
			err = p.parsePartDef(parent)
		case p.atKeyword("part"):
			err = p.parsePartUsage(parent)
		case p.atKeyword("requirement") && p.peekKeyword("def"):
			err = p.parseRequirementDef(parent)
		case p.atKeyword("state") && p.peekKeyword("def"):
			err = p.parseStateDef(parent)
		case p.atKeyword("interface"):
			err = p.parseInterface(parent)
		case p.atKeyword("bind"):
			err = p.parseBind(parent)
		default:
			p.next()
			continue
		}
		if err != nil {
			return err
		}
	}
}

// skipBlock discards a balanced { ... } block, current token included.
func (p *parser) skipBlock() {
	p.next() // {
	depth := 1
	for depth > 0 && p.cur().Kind != TokenEOF {
		switch {
		case p.atPunct("{"):
			depth++
		case p.atPunct("}"):
			depth--
		}
		p.next()
	}
}

func (p *parser) parseItemDef(parent *model.Element) error {
	p.next() // item
	p.next() // def
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.newElement(model.KindItemDef, name, parent)

	if p.atPunct("{") {
		p.skipBlock()
		return nil
	}
	return p.expectPunct(";")
}

func (p *parser) parsePortDef(parent *model.Element) error {
	p.next() // port
	p.next() // def
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindPortDef, name, parent)

	if !p.atPunct("{") {
		return p.expectPunct(";")
	}
	p.next()

	// Body: zero or more "inout|in|out item Name: Type;" lines. Anything
	// else in here is ignored.
	for p.cur().Kind != TokenEOF && !p.atPunct("}") {
		if p.atKeyword("in") || p.atKeyword("out") || p.atKeyword("inout") {
			dir := p.cur().Text
			p.next()
			if _, err := p.expect(TokenKeyword, "item"); err != nil {
				return err
			}
			itemName, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.expectPunct(":"); err != nil {
				return err
			}
			itemType, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.expectPunct(";"); err != nil {
				return err
			}
			el.Items = append(el.Items, model.PortItem{Direction: dir, Name: itemName, Type: itemType})
			continue
		}
		p.next()
	}
	return p.expectPunct("}")
}

func (p *parser) parsePortUsage(parent *model.Element) error {
	p.next() // port
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindPort, name, parent)

	if p.atPunct(":") {
		p.next()
		if el.DefRef, err = p.expectIdent(); err != nil {
			return err
		}
	}
	return p.expectPunct(";")
}

func (p *parser) parsePartDef(parent *model.Element) error {
	p.next() // part
	p.next() // def
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindPartDef, name, parent)

	if p.atPunct("{") {
		p.next()
		if err := p.parseBody(el); err != nil {
			return err
		}
		return p.expectPunct("}")
	}
	return p.expectPunct(";")
}

func (p *parser) parsePartUsage(parent *model.Element) error {
	p.next() // part
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindPart, name, parent)

	if p.atPunct(":") {
		p.next()
		if el.DefRef, err = p.expectIdent(); err != nil {
			return err
		}
	}
	if p.atPunct("[") {
		p.next()
		mult, err := p.expect(TokenNumber, "")
		if err != nil {
			return err
		}
		el.Multiplicity = mult.Text
		if err := p.expectPunct("]"); err != nil {
			return err
		}
	}
	return p.expectPunct(";")
}

func (p *parser) parseRequirementDef(parent *model.Element) error {
	p.next() // requirement
	p.next() // def
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindRequirementDef, name, parent)

	if !p.atPunct("{") {
		return p.expectPunct(";")
	}
	p.next()

	// Body: only `id = "...";` and `text = "...";` are recognized.
	for p.cur().Kind != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atKeyword("id") && p.peek().Kind == TokenPunct && p.peek().Text == "=":
			p.next()
			p.next()
			s, err := p.expect(TokenString, "")
			if err != nil {
				return err
			}
			el.ReqID = s.Text
			if err := p.expectPunct(";"); err != nil {
				return err
			}
		case p.atKeyword("text") && p.peek().Kind == TokenPunct && p.peek().Text == "=":
			p.next()
			p.next()
			s, err := p.expect(TokenString, "")
			if err != nil {
				return err
			}
			el.Text = s.Text
			if err := p.expectPunct(";"); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
	return p.expectPunct("}")
}

func (p *parser) parseStateDef(parent *model.Element) error {
	p.next() // state
	p.next() // def
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindStateDef, name, parent)

	if !p.atPunct("{") {
		return p.expectPunct(";")
	}
	p.next()

	for p.cur().Kind != TokenEOF && !p.atPunct("}") {
		switch {
		case p.atKeyword("state"):
			if err := p.parseState(el); err != nil {
				return err
			}
		case p.atKeyword("transition"):
			if err := p.parseTransition(el); err != nil {
				return err
			}
		case p.atKeyword("entry"):
			// "entry; then Initial;" initial-state shorthand. Consumed and
			// discarded: the designation is not captured in the model.
			p.next()
			if err := p.expectPunct(";"); err != nil {
				return err
			}
			if _, err := p.expect(TokenKeyword, "then"); err != nil {
				return err
			}
			if _, err := p.expectIdent(); err != nil {
				return err
			}
			if err := p.expectPunct(";"); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
	return p.expectPunct("}")
}

func (p *parser) parseState(parent *model.Element) error {
	p.next() // state
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindState, name, parent)

	if !p.atPunct("{") {
		return p.expectPunct(";")
	}
	p.next()

	// Body: only "entry action Name { ... }" is recognized; the action body
	// itself is discarded verbatim.
	for p.cur().Kind != TokenEOF && !p.atPunct("}") {
		if p.atKeyword("entry") && p.peekKeyword("action") {
			p.next()
			p.next()
			if el.EntryAction, err = p.expectIdent(); err != nil {
				return err
			}
			if p.atPunct("{") {
				p.skipBlock()
			}
			continue
		}
		p.next()
	}
	return p.expectPunct("}")
}

// parseTransition scans to the terminating semicolon, interpreting
// "first X" as source, "accept X" as trigger and "then X" as target, in any
// order. Repeats overwrite: the last occurrence of each wins.
func (p *parser) parseTransition(parent *model.Element) error {
	p.next() // transition
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	el := p.newElement(model.KindTransition, name, parent)

	for {
		if p.cur().Kind == TokenEOF {
			return nil
		}
		if p.atPunct(";") {
			p.next()
			return nil
		}
		switch {
		case p.atKeyword("first"):
			p.next()
			if el.Source, err = p.expectIdent(); err != nil {
				return err
			}
		case p.atKeyword("accept"):
			p.next()
			if el.Trigger, err = p.expectIdent(); err != nil {
				return err
			}
		case p.atKeyword("then"):
			p.next()
			if el.Target, err = p.expectIdent(); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
}

// parseInterface recognizes only "interface connect(A, B);". Any other
// interface statement is skipped token-by-token to its semicolon and
// produces no element.
func (p *parser) parseInterface(parent *model.Element) error {
	p.next() // interface

	if !p.atKeyword("connect") {
		for p.cur().Kind != TokenEOF && !p.atPunct(";") {
			p.next()
		}
		if p.atPunct(";") {
			p.next()
		}
		return nil
	}
	p.next() // connect

	if err := p.expectPunct("("); err != nil {
		return err
	}
	source, err := p.qualifiedName()
	if err != nil {
		return err
	}
	if err := p.expectPunct(","); err != nil {
		return err
	}
	target, err := p.qualifiedName()
	if err != nil {
		return err
	}
	if err := p.expectPunct(")"); err != nil {
		return err
	}
	if err := p.expectPunct(";"); err != nil {
		return err
	}

	el := p.newElement(model.KindConnection, "", parent)
	el.Source = source
	el.Target = target
	return nil
}

// parseBind handles "bind A.B = C.D;".
func (p *parser) parseBind(parent *model.Element) error {
	p.next() // bind
	source, err := p.qualifiedName()
	if err != nil {
		return err
	}
	if err := p.expectPunct("="); err != nil {
		return err
	}
	target, err := p.qualifiedName()
	if err != nil {
		return err
	}
	if err := p.expectPunct(";"); err != nil {
		return err
	}

	el := p.newElement(model.KindBind, "", parent)
	el.Source = source
	el.Target = target
	return nil
}

// qualifiedName consumes a dot-joined identifier sequence and returns it as
// one raw string. Qualified names are never resolved to element ids.
func (p *parser) qualifiedName() (string, error) {
	name, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	for p.atPunct(".") {
		p.next()
		seg, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		name += "." + seg
	}
	return name, nil
}
