package lexer

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokNumber TokenType = iota
	tokIdentifier
	tokPlus
	tokSpace
)

func arithmeticDescription(t *testing.T) *Description {
	t.Helper()

	number, err := NewTypedDefinition(tokNumber, `[0-9]+`, func(s string) (int, error) {
		return strconv.Atoi(s)
	})
	require.NoError(t, err)
	identifier, err := NewDefinition(tokIdentifier, `[a-z][a-z0-9]*`)
	require.NoError(t, err)
	plus, err := NewDefinition(tokPlus, `\+`)
	require.NoError(t, err)
	space, err := NewDefinition(tokSpace, `[ \t]+`)
	require.NoError(t, err)

	return NewDescription().
		Add(number, identifier, plus, space).
		Alias("number", tokNumber).
		Alias("plus", tokPlus)
}

func TestTokenize(t *testing.T) {
	desc := arithmeticDescription(t)

	tokens, err := Tokenize("12 + foo34", desc)
	require.NoError(t, err)
	require.Len(t, tokens, 5)

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type())
	}
	assert.Equal(t, []TokenType{tokNumber, tokSpace, tokPlus, tokSpace, tokIdentifier}, types)
	assert.Equal(t, "foo34", tokens[4].Literal())
}

func TestTypedConversion(t *testing.T) {
	desc := arithmeticDescription(t)

	tokens, err := Tokenize("42", desc)
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	n, err := As[int](tokens[0])
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	// string 请求总是返回字面值
	s, err := As[string](tokens[0])
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	_, err = As[float64](tokens[0])
	require.Error(t, err)
}

func TestUnexpectedCharacters(t *testing.T) {
	desc := arithmeticDescription(t)

	_, err := Tokenize("12 ? 34", desc)
	require.ErrorIs(t, err, ErrUnexpectedCharacters)
	assert.Contains(t, err.Error(), "offset 3")
}

func TestConverterErrorSurfaces(t *testing.T) {
	overflow, err := NewTypedDefinition(tokNumber, `[0-9]+`, func(s string) (int8, error) {
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), err
	})
	require.NoError(t, err)
	desc := NewDescription().Add(overflow)

	_, err = Tokenize("9999", desc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert")
}

func TestDefinitionOrderWins(t *testing.T) {
	// 类型编号较小的定义优先：关键字在标识符之前尝试
	keyword, err := NewDefinition(0, `let`)
	require.NoError(t, err)
	identifier, err := NewDefinition(1, `[a-z]+`)
	require.NoError(t, err)
	desc := NewDescription().Add(identifier, keyword)

	tokens, err := Tokenize("let", desc)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenType(0), tokens[0].Type())
}

func TestAnchoredMatching(t *testing.T) {
	// 定义只在当前位置匹配，不允许跳过前缀
	number, err := NewDefinition(tokNumber, `[0-9]+`)
	require.NoError(t, err)
	desc := NewDescription().Add(number)

	_, err = Tokenize("x12", desc)
	require.ErrorIs(t, err, ErrUnexpectedCharacters)
}

func TestAliasLookup(t *testing.T) {
	desc := arithmeticDescription(t)

	def, ok := desc.GetByAlias("number")
	require.True(t, ok)
	assert.Equal(t, tokNumber, def.Type())

	_, ok = desc.GetByAlias("missing")
	assert.False(t, ok)
}

func TestTokenizeReader(t *testing.T) {
	desc := arithmeticDescription(t)

	tokens, err := TokenizeReader(strings.NewReader("1+2"), desc)
	require.NoError(t, err)
	require.Len(t, tokens, 3)
}

func TestInvalidPattern(t *testing.T) {
	_, err := NewDefinition(0, `[`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile")
}
