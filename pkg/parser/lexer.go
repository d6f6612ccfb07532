package parser

import (
	"strings"
	"unicode"

	"github.com/isomorph-labs/isomorph/pkg/token"
)

// relationOps lists the relation operator literals in strict length-descending
// order. Longest match wins, so --|> is never split into -- and |>.
var relationOps = []struct {
	literal string
	typ     token.TokenType
}{
	{"--|>", token.EXTENDS_ARROW},
	{"..|>", token.IMPLEMENTS_ARROW},
	{"<|--", token.EXTENDS_ARROW_R},
	{"<|..", token.IMPLEMENTS_ARROW_R},
	{"<..", token.DEPENDS_ARROW_R},
	{"o--", token.AGGREGATE_ARROW_R},
	{"*--", token.COMPOSE_ARROW_R},
	{"-->", token.ASSOC_ARROW},
	{"..>", token.DEPENDS_ARROW},
	{"--o", token.AGGREGATE_ARROW},
	{"--*", token.COMPOSE_ARROW},
	{"--x", token.CROSS_ARROW},
	{"--", token.LINK},
}

// Lexer tokenizes Isomorph DSL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// Errors collected during lexing. Lexing never stops on an error.
	Errors []*LexError

	// Comments collected during lexing (for tooling)
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// LexResult holds the complete output of a lexer run.
type LexResult struct {
	Tokens   []token.Token
	Errors   []*LexError
	Comments []*token.Comment
}

// Lex tokenizes the entire input. The returned token slice always ends with
// a single EOF token, and lexing always terminates: unrecognized characters
// produce an UNKNOWN token plus an error and the scan advances one byte.
func Lex(input string) LexResult {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return LexResult{Tokens: tokens, Errors: l.Errors, Comments: l.Comments}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	if l.ch == 0 {
		return Token{Type: token.EOF, Literal: "", Pos: pos, End: pos}
	}

	// Relation operators first, longest match. This also covers the
	// identifier-prefixed o-- form, which must win over identifier scanning.
	if tok, ok := l.matchRelationOp(pos); ok {
		return tok
	}

	switch l.ch {
	case '{':
		return l.single(token.LBRACE, pos)
	case '}':
		return l.single(token.RBRACE, pos)
	case '(':
		return l.single(token.LPAREN, pos)
	case ')':
		return l.single(token.RPAREN, pos)
	case '[':
		return l.single(token.LBRACKET, pos)
	case ']':
		return l.single(token.RBRACKET, pos)
	case ',':
		return l.single(token.COMMA, pos)
	case ':':
		return l.single(token.COLON, pos)
	case '=':
		return l.single(token.EQUALS, pos)
	case '?':
		return l.single(token.QUESTION, pos)
	case '@':
		return l.single(token.AT, pos)
	case '+':
		return l.single(token.PLUS, pos)
	case '~':
		return l.single(token.TILDE, pos)
	case '-':
		// A minus immediately followed by a digit is a signed number, not
		// the visibility symbol.
		if isDigit(l.peekChar()) {
			return l.readNumber(pos)
		}
		return l.single(token.MINUS, pos)
	case '#':
		return l.readHash(pos)
	case '<':
		if l.peekChar() == '<' {
			l.readChar()
			l.readChar()
			return Token{Type: token.STEREO_OPEN, Literal: "<<", Pos: pos, End: l.currentPos()}
		}
		return l.single(token.LT, pos)
	case '>':
		// >> is deliberately never a single token so that nested generic
		// closes like Map<K, List<V>> tokenize correctly. The parser
		// recognizes two adjacent GT tokens as a stereotype close.
		return l.single(token.GT, pos)
	case '"':
		return l.readString(pos)
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			return l.readIdentifier(pos)
		case isDigit(l.ch):
			return l.readNumber(pos)
		default:
			l.addError(pos, "unexpected character %q", string(l.ch))
			tok := Token{Type: token.UNKNOWN, Literal: string(l.ch), Pos: pos}
			l.readChar()
			tok.End = l.currentPos()
			return tok
		}
	}
}

// matchRelationOp checks whether the input at the current position starts
// with one of the relation operator literals.
func (l *Lexer) matchRelationOp(pos Position) (Token, bool) {
	if l.pos >= len(l.input) {
		return Token{}, false
	}
	remaining := l.input[l.pos:]
	for _, op := range relationOps {
		if strings.HasPrefix(remaining, op.literal) {
			for range op.literal {
				l.readChar()
			}
			return Token{Type: op.typ, Literal: op.literal, Pos: pos, End: l.currentPos()}, true
		}
	}
	return Token{}, false
}

// single consumes the current character and returns a one-character token.
func (l *Lexer) single(t token.TokenType, pos Position) Token {
	lit := string(l.ch)
	l.readChar()
	return Token{Type: t, Literal: lit, Pos: pos, End: l.currentPos()}
}

// addError records a lexical error.
func (l *Lexer) addError(pos Position, format string, args ...any) {
	l.Errors = append(l.Errors, NewLexError(pos, format, args...))
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.collectBlockComment()
			continue
		}

		break
	}
}

// collectLineComment collects a // comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.LineComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a /* */ comment. Line and column counters
// keep advancing across embedded newlines.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			break
		}
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readHash reads either a COLOR literal (# followed by exactly six hex
// digits) or the protected-visibility HASH symbol. The check is a fixed
// six-character probe, so no backtracking is needed.
func (l *Lexer) readHash(pos Position) Token {
	if l.pos+7 <= len(l.input) && isHexRun(l.input[l.pos+1:l.pos+7]) {
		start := l.pos
		for i := 0; i < 7; i++ {
			l.readChar()
		}
		return Token{Type: token.COLOR, Literal: l.input[start : start+7], Pos: pos, End: l.currentPos()}
	}
	return l.single(token.HASH, pos)
}

// isHexRun returns true if all six bytes are hexadecimal digits.
func isHexRun(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}

// readString reads a double-quoted string literal. Supports \n, \t, and
// literal escape of any other character. An unterminated string consumes to
// end of input and records an error instead of failing hard.
func (l *Lexer) readString(pos Position) Token {
	l.readChar() // skip opening quote

	var result strings.Builder
	terminated := false
	for l.ch != 0 {
		if l.ch == '"' {
			l.readChar() // skip closing quote
			terminated = true
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case 0:
				// trailing backslash at end of input
			default:
				result.WriteByte(l.ch)
			}
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		result.WriteByte(l.ch)
		l.readChar()
	}

	if !terminated {
		l.addError(pos, "unterminated string literal")
	}
	return Token{Type: token.STRING, Literal: result.String(), Pos: pos, End: l.currentPos()}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	return Token{Type: token.LookupIdent(lit), Literal: lit, Pos: pos, End: l.currentPos()}
}

// readNumber reads a numeric literal, sign-inclusive (integer or decimal).
func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos

	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return Token{Type: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos, End: l.currentPos()}
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isHexDigit returns true if ch is a hexadecimal digit.
func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
