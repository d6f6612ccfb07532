// Package parser provides lexing and parsing for the Isomorph diagram DSL.
//
// # Usage
//
//	res := parser.Parse(source)
//	for _, e := range res.Errors {
//	    // report e
//	}
//	use(res.Program)
//
// # Grammar Overview
//
// The parser implements a recursive descent parser with one token of
// lookahead (LL(1)):
//
//	program      → importDecl* diagramDecl*
//	diagramDecl  → 'diagram' IDENT ':' diagramKind '{' bodyItem* '}'
//	bodyItem     → packageDecl | entityDecl | relationDecl | noteDecl
//	             | styleDecl | layoutAnnotation
//
// Parsing never aborts: every error is recorded and the parser produces a
// best-effort AST. See each file for the grammar rules it covers.
package parser

import (
	"fmt"

	"github.com/isomorph-labs/isomorph/pkg/token"
)

// Parser parses a token stream into a Program AST.
type Parser struct {
	tokens []Token
	pos    int
	prev   Token // last consumed token, for span ends
	errors []*ParseError
}

// Result holds the complete output of a parse run.
type Result struct {
	Program   *Program
	Errors    []*ParseError
	LexErrors []*LexError
	Comments  []*token.Comment
}

// Parse lexes and parses the given source. Total: malformed input yields a
// best-effort Program plus a non-empty error list, never a panic.
func Parse(source string) Result {
	lexed := Lex(source)
	p := NewParser(lexed.Tokens)
	program := p.ParseProgram()
	return Result{
		Program:   program,
		Errors:    p.Errors(),
		LexErrors: lexed.Errors,
		Comments:  lexed.Comments,
	}
}

// NewParser creates a parser over a token stream. The stream must end with
// an EOF token, which the lexer guarantees.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 {
		tokens = []Token{{Type: token.EOF}}
	}
	return &Parser{tokens: tokens}
}

// Errors returns the parse errors recorded so far.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ---------- Token Helpers ----------

// cur returns the current token. Past the end it returns the EOF sentinel.
func (p *Parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// peek returns the lookahead token.
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() Token {
	tok := p.cur()
	if tok.Type != token.EOF {
		p.pos++
	}
	p.prev = tok
	return tok
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.cur().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes and returns the current token if it matches. On mismatch
// it records an error and returns the unexpected token without consuming it,
// leaving the caller to decide whether to resynchronize or proceed. This is
// the parser's sole error-recovery primitive.
func (p *Parser) expect(t TokenType) (Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.cur().Type, t))
	return p.cur(), false
}

// addError records a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.cur().Pos,
		Message: msg,
	})
}

// spanFrom builds a span from a start position to the end of the last
// consumed token.
func (p *Parser) spanFrom(start Position) Span {
	return Span{Start: start, End: p.prev.End}
}

// ---------- Program ----------

// ParseProgram parses the whole token stream into a Program. The top-level
// loop skips one unexpected token and continues, so a stray token never
// aborts the parse.
func (p *Parser) ParseProgram() *Program {
	program := &Program{}
	start := p.cur().Pos

	for !p.check(token.EOF) {
		switch p.cur().Type {
		case token.IMPORT:
			if imp := p.parseImport(); imp != nil {
				program.Imports = append(program.Imports, imp)
			}
		case token.DIAGRAM:
			if d := p.parseDiagram(); d != nil {
				program.Diagrams = append(program.Diagrams, d)
			}
		default:
			p.addError(fmt.Sprintf("unexpected token %s, expected import or diagram", p.cur().Type))
			p.advance()
		}
	}

	program.Span = p.spanFrom(start)
	return program
}

// parseImport parses: 'import' STRING
func (p *Parser) parseImport() *ImportDecl {
	start := p.cur().Pos
	p.advance() // import

	pathTok, ok := p.expect(token.STRING)
	if !ok {
		return nil
	}
	return &ImportDecl{
		NodeInfo: NodeInfo{Span: p.spanFrom(start)},
		Path:     pathTok.Literal,
	}
}

// parseDiagram parses: 'diagram' IDENT ':' diagramKind '{' bodyItem* '}'
func (p *Parser) parseDiagram() *DiagramDecl {
	start := p.cur().Pos
	p.advance() // diagram

	d := &DiagramDecl{}
	if nameTok, ok := p.expect(token.IDENT); ok {
		d.Name = nameTok.Literal
	}
	p.expect(token.COLON)
	d.Kind = p.parseDiagramKind()
	p.expect(token.LBRACE)
	d.Body = p.parseBodyItems()
	p.expect(token.RBRACE)

	d.Span = p.spanFrom(start)
	return d
}

// parseDiagramKind consumes a diagram kind keyword. Unknown kinds degrade
// to a placeholder so parsing can continue.
func (p *Parser) parseDiagramKind() DiagramKind {
	switch p.cur().Type {
	case token.CLASS:
		p.advance()
		return DiagramClass
	case token.USECASE:
		p.advance()
		return DiagramUseCase
	case token.SEQUENCE:
		p.advance()
		return DiagramSequence
	case token.COMPONENT:
		p.advance()
		return DiagramComponent
	case token.FLOW:
		p.advance()
		return DiagramFlow
	case token.DEPLOYMENT:
		p.advance()
		return DiagramDeployment
	default:
		p.addError(fmt.Sprintf("unknown diagram kind %q", p.cur().Literal))
		if p.cur().Type == token.IDENT {
			p.advance()
		}
		return DiagramUnknown
	}
}

// ---------- Body Items ----------

// parseBodyItems parses body items until the closing brace (or EOF).
func (p *Parser) parseBodyItems() []BodyItem {
	var items []BodyItem
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		item := p.parseBodyItem()
		if item == nil {
			// Unrecognized token: skip it so the loop always progresses.
			p.advance()
			continue
		}
		items = append(items, item)
	}
	return items
}

// parseBodyItem dispatches on the first token (and at most one token of
// lookahead, for relations) to the matching production.
func (p *Parser) parseBodyItem() BodyItem {
	switch {
	case p.check(token.PACKAGE):
		return p.parsePackage()
	case p.check(token.NOTE):
		return p.parseNote()
	case p.check(token.STYLE):
		return p.parseStyle()
	case p.check(token.AT):
		return p.parseLayoutAnnotation()
	case p.isEntityStart():
		return p.parseEntity()
	case p.check(token.IDENT) && token.IsRelationOperator(p.peek().Type):
		return p.parseRelation()
	default:
		p.addError(fmt.Sprintf("unexpected token %s in diagram body", p.cur().Type))
		return nil
	}
}

// isEntityStart returns true if the current token can begin an entity
// declaration: an entity kind keyword or a leading modifier.
func (p *Parser) isEntityStart() bool {
	t := p.cur().Type
	return token.IsEntityKind(t) || t == token.ABSTRACT || t == token.FINAL
}

// parsePackage parses: 'package' IDENT '{' bodyItem* '}'
func (p *Parser) parsePackage() *PackageDecl {
	start := p.cur().Pos
	p.advance() // package

	pkg := &PackageDecl{}
	if nameTok, ok := p.expect(token.IDENT); ok {
		pkg.Name = nameTok.Literal
	}
	p.expect(token.LBRACE)
	pkg.Body = p.parseBodyItems()
	p.expect(token.RBRACE)

	pkg.Span = p.spanFrom(start)
	return pkg
}
