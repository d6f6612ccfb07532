package parser

// Relation, note, style, and layout productions:
//
//	relationDecl     → IDENT relOp IDENT attrBlock?
//	attrBlock        → '[' IDENT '=' STRING (',' IDENT '=' STRING)* ']'
//	noteDecl         → 'note' STRING ('on' IDENT)?
//	styleDecl        → 'style' IDENT '{' (IDENT ':' styleValue)* '}'
//	layoutAnnotation → '@' IDENT 'at' '(' NUMBER ',' NUMBER ')'

import (
	"fmt"
	"strconv"

	"github.com/isomorph-labs/isomorph/pkg/token"
)

// parseRelation parses a relation between two named entities. Reversed
// operator forms map to the same kind as their forward counterparts; the
// endpoints are recorded exactly as written, never swapped.
func (p *Parser) parseRelation() *RelationDecl {
	start := p.cur().Pos

	r := &RelationDecl{Styles: map[string]string{}}
	if fromTok, ok := p.expect(token.IDENT); ok {
		r.From = fromTok.Literal
	}

	opTok := p.advance()
	if !token.IsRelationOperator(opTok.Type) {
		p.addError(fmt.Sprintf("expected relation operator, got %s", opTok.Type))
	}
	r.Operator = opTok.Type
	r.Kind, r.Line, r.Reversed = relationKindFor(opTok.Type)

	if toTok, ok := p.expect(token.IDENT); ok {
		r.To = toTok.Literal
	}

	if p.check(token.LBRACKET) {
		p.parseAttrBlock(r)
	}

	r.Span = p.spanFrom(start)
	return r
}

// parseAttrBlock parses the unordered [key="value", ...] association list.
// The label, fromMult, and toMult keys land in dedicated fields; everything
// else falls into the style map. Unknown keys are not errors.
func (p *Parser) parseAttrBlock(r *RelationDecl) {
	p.advance() // [
	for !p.check(token.RBRACKET) && !p.check(token.EOF) {
		keyTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}
		p.expect(token.EQUALS)
		valTok, ok := p.expect(token.STRING)
		if !ok {
			break
		}
		switch keyTok.Literal {
		case "label":
			r.Label = valTok.Literal
		case "fromMult":
			r.FromMult = valTok.Literal
		case "toMult":
			r.ToMult = valTok.Literal
		default:
			r.Styles[keyTok.Literal] = valTok.Literal
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
}

// parseNote parses: 'note' STRING ('on' IDENT)?
func (p *Parser) parseNote() *NoteDecl {
	start := p.cur().Pos
	p.advance() // note

	n := &NoteDecl{}
	if textTok, ok := p.expect(token.STRING); ok {
		n.Text = textTok.Literal
	}
	if p.match(token.ON) {
		if target, ok := p.expect(token.IDENT); ok {
			n.On = target.Literal
		}
	}

	n.Span = p.spanFrom(start)
	return n
}

// parseStyle parses: 'style' IDENT '{' (IDENT ':' styleValue)* '}'
func (p *Parser) parseStyle() *StyleDecl {
	start := p.cur().Pos
	p.advance() // style

	s := &StyleDecl{Props: map[string]string{}}
	if target, ok := p.expect(token.IDENT); ok {
		s.Target = target.Literal
	}
	p.expect(token.LBRACE)
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		keyTok, ok := p.expect(token.IDENT)
		if !ok {
			p.advance()
			continue
		}
		p.expect(token.COLON)
		switch p.cur().Type {
		case token.COLOR, token.STRING, token.NUMBER, token.IDENT:
			s.Props[keyTok.Literal] = p.advance().Literal
		default:
			p.addError(fmt.Sprintf("expected style value, got %s", p.cur().Type))
		}
	}
	p.expect(token.RBRACE)

	s.Span = p.spanFrom(start)
	return s
}

// parseLayoutAnnotation parses: '@' IDENT 'at' '(' NUMBER ',' NUMBER ')'.
// Coordinates may be negative; the lexer folds the sign into the NUMBER
// token so the annotation round-trips.
func (p *Parser) parseLayoutAnnotation() *LayoutAnnotation {
	start := p.cur().Pos
	p.advance() // @

	a := &LayoutAnnotation{}
	if entity, ok := p.expect(token.IDENT); ok {
		a.Entity = entity.Literal
	}
	p.expect(token.AT_KW)
	p.expect(token.LPAREN)
	if xTok, ok := p.expect(token.NUMBER); ok {
		a.X, _ = strconv.ParseFloat(xTok.Literal, 64)
	}
	p.expect(token.COMMA)
	if yTok, ok := p.expect(token.NUMBER); ok {
		a.Y, _ = strconv.ParseFloat(yTok.Literal, 64)
	}
	p.expect(token.RPAREN)

	a.Span = p.spanFrom(start)
	return a
}
