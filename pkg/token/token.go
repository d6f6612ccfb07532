// Package token defines the token types for the Isomorph diagram DSL.
//
// The token set is closed: every token the lexer can produce is one of the
// constants below, including the UNKNOWN meta kind for unrecognized input.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow lexer conventions
const (
	// Special tokens
	EOF TokenType = iota
	UNKNOWN

	// Literals
	IDENT  // identifier
	NUMBER // 123, -45, 6.7
	STRING // "hello"
	COLOR  // #ff0099

	// Punctuation
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	COLON    // :
	EQUALS   // =
	QUESTION // ?
	AT       // @

	// Visibility symbols
	PLUS  // + public
	MINUS // - private
	HASH  // # protected
	TILDE // ~ package

	// Generic / stereotype delimiters. The stereotype close >> is always
	// lexed as two GT tokens; only the open << is a dedicated token.
	LT          // <
	GT          // >
	STEREO_OPEN // <<

	// Relation operators (13 literal forms)
	EXTENDS_ARROW      // --|>
	IMPLEMENTS_ARROW   // ..|>
	EXTENDS_ARROW_R    // <|--
	IMPLEMENTS_ARROW_R // <|..
	DEPENDS_ARROW_R    // <..
	AGGREGATE_ARROW_R  // o--
	COMPOSE_ARROW_R    // *--
	ASSOC_ARROW        // -->
	DEPENDS_ARROW      // ..>
	AGGREGATE_ARROW    // --o
	COMPOSE_ARROW      // --*
	CROSS_ARROW        // --x
	LINK               // --

	// Keywords
	IMPORT
	DIAGRAM
	PACKAGE
	CLASS
	INTERFACE
	ENUM
	ACTOR
	USECASE
	COMPONENT
	NODE
	SEQUENCE
	FLOW
	DEPLOYMENT
	EXTENDS
	IMPLEMENTS
	ABSTRACT
	FINAL
	STATIC
	NOTE
	ON
	STYLE
	AT_KW // at (inside layout annotations)

	// Word-form visibility keywords. The symbol forms (+ - # ~) are the
	// usual spelling; the word forms are accepted in the same positions.
	// Package visibility reuses the PACKAGE keyword.
	PUBLIC
	PRIVATE
	PROTECTED
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	UNKNOWN: "UNKNOWN",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	COLOR:  "COLOR",

	LBRACE:   "{",
	RBRACE:   "}",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	COMMA:    ",",
	COLON:    ":",
	EQUALS:   "=",
	QUESTION: "?",
	AT:       "@",

	PLUS:  "+",
	MINUS: "-",
	HASH:  "#",
	TILDE: "~",

	LT:          "<",
	GT:          ">",
	STEREO_OPEN: "<<",

	EXTENDS_ARROW:      "--|>",
	IMPLEMENTS_ARROW:   "..|>",
	EXTENDS_ARROW_R:    "<|--",
	IMPLEMENTS_ARROW_R: "<|..",
	DEPENDS_ARROW_R:    "<..",
	AGGREGATE_ARROW_R:  "o--",
	COMPOSE_ARROW_R:    "*--",
	ASSOC_ARROW:        "-->",
	DEPENDS_ARROW:      "..>",
	AGGREGATE_ARROW:    "--o",
	COMPOSE_ARROW:      "--*",
	CROSS_ARROW:        "--x",
	LINK:               "--",

	IMPORT:     "import",
	DIAGRAM:    "diagram",
	PACKAGE:    "package",
	CLASS:      "class",
	INTERFACE:  "interface",
	ENUM:       "enum",
	ACTOR:      "actor",
	USECASE:    "usecase",
	COMPONENT:  "component",
	NODE:       "node",
	SEQUENCE:   "sequence",
	FLOW:       "flow",
	DEPLOYMENT: "deployment",
	EXTENDS:    "extends",
	IMPLEMENTS: "implements",
	ABSTRACT:   "abstract",
	FINAL:      "final",
	STATIC:     "static",
	NOTE:       "note",
	ON:         "on",
	STYLE:      "style",
	AT_KW:      "at",
	PUBLIC:     "public",
	PRIVATE:    "private",
	PROTECTED:  "protected",
}

// keywords maps keyword strings to their token types. The DSL keywords are
// lowercase and case-sensitive.
var keywords = map[string]TokenType{
	"import":     IMPORT,
	"diagram":    DIAGRAM,
	"package":    PACKAGE,
	"class":      CLASS,
	"interface":  INTERFACE,
	"enum":       ENUM,
	"actor":      ACTOR,
	"usecase":    USECASE,
	"component":  COMPONENT,
	"node":       NODE,
	"sequence":   SEQUENCE,
	"flow":       FLOW,
	"deployment": DEPLOYMENT,
	"extends":    EXTENDS,
	"implements": IMPLEMENTS,
	"abstract":   ABSTRACT,
	"final":      FINAL,
	"static":     STATIC,
	"note":       NOTE,
	"on":         ON,
	"style":      STYLE,
	"at":         AT_KW,
	"public":     PUBLIC,
	"private":    PRIVATE,
	"protected":  PROTECTED,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= IMPORT && t <= PROTECTED
}

// IsRelationOperator returns true if the token type is one of the 13
// relation operators.
func IsRelationOperator(t TokenType) bool {
	return t >= EXTENDS_ARROW && t <= LINK
}

// IsEntityKind returns true if the token type names an entity kind.
func IsEntityKind(t TokenType) bool {
	switch t {
	case CLASS, INTERFACE, ENUM, ACTOR, USECASE, COMPONENT, NODE:
		return true
	}
	return false
}

// IsVisibility returns true if the token type is a visibility symbol or a
// word-form visibility keyword.
func IsVisibility(t TokenType) bool {
	switch t {
	case PLUS, MINUS, HASH, TILDE, PUBLIC, PRIVATE, PROTECTED, PACKAGE:
		return true
	}
	return false
}

// Token represents a lexical token with position information.
// Tokens are immutable once produced by the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     Position // position just past the token text
}
