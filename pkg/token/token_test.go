package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/isomorph-labs/isomorph/pkg/token"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  token.TokenType
	}{
		{"diagram", token.DIAGRAM},
		{"class", token.CLASS},
		{"extends", token.EXTENDS},
		{"at", token.AT_KW},
		{"protected", token.PROTECTED},
		{"Account", token.IDENT},
		{"Diagram", token.IDENT}, // keywords are case-sensitive
		{"classes", token.IDENT},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, token.LookupIdent(tt.ident), tt.ident)
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, token.IsKeyword(token.IMPORT))
	assert.True(t, token.IsKeyword(token.PROTECTED))
	assert.False(t, token.IsKeyword(token.IDENT))
	assert.False(t, token.IsKeyword(token.LINK))

	assert.True(t, token.IsRelationOperator(token.EXTENDS_ARROW))
	assert.True(t, token.IsRelationOperator(token.LINK))
	assert.False(t, token.IsRelationOperator(token.MINUS))

	assert.True(t, token.IsEntityKind(token.ENUM))
	assert.False(t, token.IsEntityKind(token.DIAGRAM))

	assert.True(t, token.IsVisibility(token.PLUS))
	assert.True(t, token.IsVisibility(token.PACKAGE))
	assert.True(t, token.IsVisibility(token.PRIVATE))
	assert.False(t, token.IsVisibility(token.COLON))
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "--|>", token.EXTENDS_ARROW.String())
	assert.Equal(t, "IDENT", token.IDENT.String())
	assert.Equal(t, "EOF", token.EOF.String())
	assert.Equal(t, "TOKEN(9999)", token.TokenType(9999).String())
}

func TestSpanContains(t *testing.T) {
	span := token.Span{
		Start: token.Position{Line: 1, Column: 1, Offset: 4},
		End:   token.Position{Line: 1, Column: 5, Offset: 8},
	}
	assert.True(t, span.Contains(4))
	assert.True(t, span.Contains(7))
	assert.False(t, span.Contains(8))
	assert.False(t, span.Contains(3))
	assert.True(t, span.IsValid())
	assert.False(t, token.Span{}.IsValid())
}
