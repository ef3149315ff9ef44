package parser

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltfishpr/futures/lexer"
)

const (
	tokNumber lexer.TokenType = iota
	tokComma
	tokSpace
)

func tokenize(t *testing.T, input string) []lexer.Token {
	t.Helper()

	number, err := lexer.NewTypedDefinition(tokNumber, `[0-9]+`, func(s string) (int, error) {
		return strconv.Atoi(s)
	})
	require.NoError(t, err)
	comma, err := lexer.NewDefinition(tokComma, `,`)
	require.NoError(t, err)
	space, err := lexer.NewDefinition(tokSpace, `[ \t]+`)
	require.NoError(t, err)

	tokens, err := lexer.Tokenize(input, lexer.NewDescription().Add(number, comma, space))
	require.NoError(t, err)
	return tokens
}

func TestTerm(t *testing.T) {
	c := NewCursor(tokenize(t, "1,"))

	tok, ok := Term(tokNumber).Match(c)
	require.True(t, ok)
	assert.Equal(t, "1", tok.Literal())

	_, ok = Term(tokNumber).Match(c)
	assert.False(t, ok)
	// 失败后游标回退，逗号仍可被匹配
	_, ok = Term(tokComma).Match(c)
	assert.True(t, ok)
	assert.Zero(t, c.Remaining())
}

func TestMap(t *testing.T) {
	c := NewCursor(tokenize(t, "42"))

	number := Map(Term(tokNumber), func(tok lexer.Token) int {
		n, err := lexer.As[int](tok)
		require.NoError(t, err)
		return n
	})

	v, ok := number.Match(c)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestKleeneMatchesMany(t *testing.T) {
	c := NewCursor(tokenize(t, "1,2,3"))

	item := Map(Term(tokNumber), func(tok lexer.Token) string {
		return tok.Literal()
	})
	list := Kleene(New(func(c *Cursor) (string, bool) {
		v, ok := item.Match(c)
		if !ok {
			return "", false
		}
		// 逗号是可选的结尾分隔符
		Term(tokComma).Match(c)
		return v, true
	}))

	out, ok := list.Match(c)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "3"}, out)
	assert.Zero(t, c.Remaining())
}

func TestKleeneMatchesZero(t *testing.T) {
	c := NewCursor(tokenize(t, ","))

	out, ok := Kleene(Term(tokNumber)).Match(c)
	require.True(t, ok)
	assert.Empty(t, out)
	assert.Equal(t, 1, c.Remaining())
}

func TestKleeneStopsAtFirstMismatch(t *testing.T) {
	c := NewCursor(tokenize(t, "1 2,3"))

	out, ok := Kleene(Term(tokNumber)).Match(c)
	require.True(t, ok)
	assert.Len(t, out, 1)
	// 空白处停止，游标指向空白单元
	_, ok = Term(tokSpace).Match(c)
	assert.True(t, ok)
}

func TestKleeneSkip(t *testing.T) {
	c := NewCursor(tokenize(t, " 1 2\t3"))

	out, ok := KleeneSkip(Term(tokNumber), Term(tokSpace)).Match(c)
	require.True(t, ok)
	assert.Len(t, out, 3)
	assert.Zero(t, c.Remaining())
}
