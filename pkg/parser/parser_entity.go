package parser

// Entity, member, and type-expression productions:
//
//	entityDecl  → modifier* entityKind IDENT stereotype?
//	              ('extends' identList)? ('implements' identList)?
//	              '{' member* '}'
//	stereotype  → '<<' IDENT '>' '>'
//	member      → fieldDecl | methodDecl | enumValueDecl
//	fieldDecl   → visibility? 'static'? IDENT ':' typeExpr ('=' literal)?
//	methodDecl  → visibility? modifier* IDENT '(' params? ')' (':' typeExpr)?
//	typeExpr    → IDENT ('<' typeExpr (',' typeExpr)* '>')? '?'?

import (
	"fmt"

	"github.com/isomorph-labs/isomorph/pkg/token"
)

// parseEntity parses an entity declaration including its member block.
func (p *Parser) parseEntity() *EntityDecl {
	start := p.cur().Pos
	e := &EntityDecl{}

	for p.check(token.ABSTRACT) || p.check(token.FINAL) {
		e.Modifiers = append(e.Modifiers, p.advance().Literal)
	}

	e.Kind = p.parseEntityKind()

	if nameTok, ok := p.expect(token.IDENT); ok {
		e.Name = nameTok.Literal
	}

	if p.check(token.STEREO_OPEN) {
		e.Stereotype = p.parseStereotype()
	}

	if p.match(token.EXTENDS) {
		e.Extends = p.parseIdentList()
	}
	if p.match(token.IMPLEMENTS) {
		e.Implements = p.parseIdentList()
	}

	p.expect(token.LBRACE)
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		m := p.parseMember()
		if m == nil {
			p.advance()
			continue
		}
		e.Members = append(e.Members, m)
	}
	p.expect(token.RBRACE)

	e.Span = p.spanFrom(start)
	return e
}

// parseEntityKind consumes an entity kind keyword, defaulting to class on
// error so the declaration can still be collected.
func (p *Parser) parseEntityKind() EntityKind {
	switch p.cur().Type {
	case token.CLASS:
		p.advance()
		return KindClass
	case token.INTERFACE:
		p.advance()
		return KindInterface
	case token.ENUM:
		p.advance()
		return KindEnum
	case token.ACTOR:
		p.advance()
		return KindActor
	case token.USECASE:
		p.advance()
		return KindUseCase
	case token.COMPONENT:
		p.advance()
		return KindComponent
	case token.NODE:
		p.advance()
		return KindNode
	default:
		p.addError(fmt.Sprintf("expected entity kind, got %s", p.cur().Type))
		return KindClass
	}
}

// parseStereotype parses << IDENT >>. The close is consumed as two separate
// GT tokens; the lexer never emits a combined stereotype-close token, so
// this is the parser-side half of that disambiguation.
func (p *Parser) parseStereotype() string {
	p.advance() // <<
	name := ""
	// Stereotype names like <<interface>> overlap with keywords, so any
	// identifier-shaped token is accepted here.
	if p.check(token.IDENT) || token.IsKeyword(p.cur().Type) {
		name = p.advance().Literal
	} else {
		p.addError(fmt.Sprintf("expected stereotype name, got %s", p.cur().Type))
	}
	p.expect(token.GT)
	p.expect(token.GT)
	return name
}

// parseIdentList parses IDENT (',' IDENT)*.
func (p *Parser) parseIdentList() []string {
	var names []string
	for {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}
		names = append(names, nameTok.Literal)
		if !p.match(token.COMMA) {
			break
		}
	}
	return names
}

// ---------- Members ----------

// parseMember classifies and parses one entity member. A bare identifier
// that is neither called nor typed is an enum value.
func (p *Parser) parseMember() Member {
	start := p.cur().Pos

	vis := VisPublic
	hasVis := false
	if token.IsVisibility(p.cur().Type) {
		vis = visibilityFor(p.advance().Type)
		hasVis = true
	}

	static := false
	abstract := false
	for p.check(token.STATIC) || p.check(token.ABSTRACT) {
		if p.advance().Type == token.STATIC {
			static = true
		} else {
			abstract = true
		}
	}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return nil
	}

	switch {
	case p.check(token.LPAREN):
		return p.parseMethod(start, vis, static, abstract, nameTok.Literal)
	case p.check(token.COLON):
		return p.parseField(start, vis, static, nameTok.Literal)
	default:
		if hasVis || static || abstract {
			p.addError(fmt.Sprintf("expected ':' or '(' after member name %q", nameTok.Literal))
			return nil
		}
		return &EnumValueDecl{
			NodeInfo: NodeInfo{Span: p.spanFrom(start)},
			Name:     nameTok.Literal,
		}
	}
}

// parseField parses the remainder of a field after its name: ':' typeExpr
// ('=' literal)?.
func (p *Parser) parseField(start Position, vis Visibility, static bool, name string) *FieldDecl {
	f := &FieldDecl{
		Visibility: vis,
		Static:     static,
		Name:       name,
	}
	p.expect(token.COLON)
	f.Type = p.parseTypeExpr()

	if p.match(token.EQUALS) {
		switch p.cur().Type {
		case token.STRING, token.NUMBER, token.COLOR, token.IDENT:
			f.Default = p.advance().Literal
			f.HasDefault = true
		default:
			p.addError(fmt.Sprintf("expected literal default value, got %s", p.cur().Type))
		}
	}

	f.Span = p.spanFrom(start)
	return f
}

// parseMethod parses the remainder of a method after its name:
// '(' params? ')' (':' typeExpr)?.
func (p *Parser) parseMethod(start Position, vis Visibility, static, abstract bool, name string) *MethodDecl {
	m := &MethodDecl{
		Visibility: vis,
		Static:     static,
		Abstract:   abstract,
		Name:       name,
	}
	p.expect(token.LPAREN)
	if !p.check(token.RPAREN) && !p.check(token.EOF) {
		m.Params = p.parseParams()
	}
	p.expect(token.RPAREN)

	if p.match(token.COLON) {
		m.Returns = p.parseTypeExpr()
	}

	m.Span = p.spanFrom(start)
	return m
}

// parseParams parses IDENT ':' typeExpr (',' IDENT ':' typeExpr)*.
func (p *Parser) parseParams() []*ParamDecl {
	var params []*ParamDecl
	for {
		start := p.cur().Pos
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}
		param := &ParamDecl{Name: nameTok.Literal}
		p.expect(token.COLON)
		param.Type = p.parseTypeExpr()
		param.Span = p.spanFrom(start)
		params = append(params, param)
		if !p.match(token.COMMA) {
			break
		}
	}
	return params
}

// ---------- Type Expressions ----------

// parseTypeExpr parses typeName ('<' typeArgList '>')? '?'?. The nullable
// suffix is postfix: it wraps the already-built base type, so List<string>?
// is the whole generic made nullable, not its last argument.
func (p *Parser) parseTypeExpr() TypeExpr {
	start := p.cur().Pos

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		return &SimpleType{NodeInfo: NodeInfo{Span: p.spanFrom(start)}}
	}

	var t TypeExpr = &SimpleType{
		NodeInfo: NodeInfo{Span: p.spanFrom(start)},
		Name:     nameTok.Literal,
	}

	if p.match(token.LT) {
		g := &GenericType{Base: nameTok.Literal}
		for {
			g.Args = append(g.Args, p.parseTypeExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.GT)
		g.Span = p.spanFrom(start)
		t = g
	}

	if p.match(token.QUESTION) {
		t = &NullableType{
			NodeInfo: NodeInfo{Span: p.spanFrom(start)},
			Inner:    t,
		}
	}

	return t
}

// visibilityFor maps a visibility token (symbol or word form) to its level.
// The mapping is total; anything unexpected defaults to public.
func visibilityFor(t TokenType) Visibility {
	switch t {
	case token.MINUS, token.PRIVATE:
		return VisPrivate
	case token.HASH, token.PROTECTED:
		return VisProtected
	case token.TILDE, token.PACKAGE:
		return VisPackage
	default:
		return VisPublic
	}
}
