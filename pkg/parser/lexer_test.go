package parser_test

import (
	"testing"

	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kinds strips a lexed stream down to its token types.
func kinds(t *testing.T, input string) []token.TokenType {
	t.Helper()
	res := parser.Lex(input)
	out := make([]token.TokenType, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestRelationOperatorsLexAsSingleTokens(t *testing.T) {
	tests := []struct {
		op   string
		want token.TokenType
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

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			res := parser.Lex("A " + tt.op + " B")
			require.Empty(t, res.Errors)
			require.Len(t, res.Tokens, 4)
			assert.Equal(t, token.IDENT, res.Tokens[0].Type)
			assert.Equal(t, tt.want, res.Tokens[1].Type)
			assert.Equal(t, tt.op, res.Tokens[1].Literal)
			assert.Equal(t, token.IDENT, res.Tokens[2].Type)
			assert.Equal(t, token.EOF, res.Tokens[3].Type)
		})
	}
}

func TestAggregationLeftFormBeatsIdentifierScan(t *testing.T) {
	// o-- starts with an identifier character but must lex as one operator.
	got := kinds(t, "Wheel o-- Car")
	want := []token.TokenType{token.IDENT, token.AGGREGATE_ARROW_R, token.IDENT, token.EOF}
	assert.Equal(t, want, got)
}

func TestNestedGenericCloseIsTwoGtTokens(t *testing.T) {
	got := kinds(t, "Map<String,List<T>>")
	want := []token.TokenType{
		token.IDENT, token.LT, token.IDENT, token.COMMA,
		token.IDENT, token.LT, token.IDENT,
		token.GT, token.GT, token.EOF,
	}
	assert.Equal(t, want, got)
}

func TestStereotypeDelimiters(t *testing.T) {
	got := kinds(t, "<<interface>>")
	want := []token.TokenType{token.STEREO_OPEN, token.INTERFACE, token.GT, token.GT, token.EOF}
	assert.Equal(t, want, got)
}

func TestSignedNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
		lit   string // literal of the NUMBER token, if any
	}{
		{
			name:  "negative integer is one token",
			input: "-42",
			want:  []token.TokenType{token.NUMBER, token.EOF},
			lit:   "-42",
		},
		{
			name:  "negative decimal",
			input: "-4.5",
			want:  []token.TokenType{token.NUMBER, token.EOF},
			lit:   "-4.5",
		},
		{
			name:  "minus without digit is visibility symbol",
			input: "- name",
			want:  []token.TokenType{token.MINUS, token.IDENT, token.EOF},
		},
		{
			name:  "default value keeps sign",
			input: "x: int = -1",
			want: []token.TokenType{
				token.IDENT, token.COLON, token.IDENT, token.EQUALS,
				token.NUMBER, token.EOF,
			},
			lit: "-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parser.Lex(tt.input)
			require.Empty(t, res.Errors)
			got := make([]token.TokenType, 0, len(res.Tokens))
			for _, tok := range res.Tokens {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tt.want, got)
			if tt.lit != "" {
				for _, tok := range res.Tokens {
					if tok.Type == token.NUMBER {
						assert.Equal(t, tt.lit, tok.Literal)
					}
				}
			}
		})
	}
}

func TestHashDisambiguation(t *testing.T) {
	t.Run("six hex digits make a color", func(t *testing.T) {
		res := parser.Lex("#ff0099")
		require.Empty(t, res.Errors)
		require.Len(t, res.Tokens, 2)
		assert.Equal(t, token.COLOR, res.Tokens[0].Type)
		assert.Equal(t, "#ff0099", res.Tokens[0].Literal)
	})

	t.Run("hash before keyword stays visibility symbol", func(t *testing.T) {
		got := kinds(t, "#protected")
		want := []token.TokenType{token.HASH, token.PROTECTED, token.EOF}
		assert.Equal(t, want, got)
	})

	t.Run("short hex run is not a color", func(t *testing.T) {
		got := kinds(t, "#ff00")
		want := []token.TokenType{token.HASH, token.IDENT, token.EOF}
		assert.Equal(t, want, got)
	})

	t.Run("color then identifier tail", func(t *testing.T) {
		got := kinds(t, "#ff0099aa")
		want := []token.TokenType{token.COLOR, token.IDENT, token.EOF}
		assert.Equal(t, want, got)
	})
}

func TestStringLiterals(t *testing.T) {
	t.Run("escape sequences", func(t *testing.T) {
		res := parser.Lex(`"line one\nline two\t\"quoted\""`)
		require.Empty(t, res.Errors)
		require.Equal(t, token.STRING, res.Tokens[0].Type)
		assert.Equal(t, "line one\nline two\t\"quoted\"", res.Tokens[0].Literal)
	})

	t.Run("unterminated string records error and keeps token", func(t *testing.T) {
		res := parser.Lex(`"never closed`)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0].Error(), "unterminated string")
		require.Equal(t, token.STRING, res.Tokens[0].Type)
		assert.Equal(t, "never closed", res.Tokens[0].Literal)
	})
}

func TestCommentsCollectedNotTokenized(t *testing.T) {
	src := `// header comment
class /* inline */ A
`
	res := parser.Lex(src)
	require.Empty(t, res.Errors)

	got := make([]token.TokenType, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		got = append(got, tok.Type)
	}
	assert.Equal(t, []token.TokenType{token.CLASS, token.IDENT, token.EOF}, got)

	require.Len(t, res.Comments, 2)
	assert.Equal(t, token.LineComment, res.Comments[0].Kind)
	assert.Equal(t, "// header comment", res.Comments[0].Text)
	assert.Equal(t, token.BlockComment, res.Comments[1].Kind)
	assert.Equal(t, "/* inline */", res.Comments[1].Text)
}

func TestUnknownCharacter(t *testing.T) {
	res := parser.Lex("class A $ B")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), `unexpected character "$"`)

	got := make([]token.TokenType, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		got = append(got, tok.Type)
	}
	assert.Equal(t, []token.TokenType{token.CLASS, token.IDENT, token.UNKNOWN, token.IDENT, token.EOF}, got)
}

func TestTokenPositions(t *testing.T) {
	res := parser.Lex("class\n  Account")
	require.Empty(t, res.Errors)
	require.Len(t, res.Tokens, 3)

	assert.Equal(t, 1, res.Tokens[0].Pos.Line)
	assert.Equal(t, 1, res.Tokens[0].Pos.Column)

	assert.Equal(t, 2, res.Tokens[1].Pos.Line)
	assert.Equal(t, 3, res.Tokens[1].Pos.Column)
	assert.Equal(t, 8, res.Tokens[1].Pos.Offset)
}
