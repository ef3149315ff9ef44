// Package lexer 提供了一个基于正则表达式的词法分析器。
//
// # 使用流程
//
//  1. 定义词法单元：使用 NewDefinition()（字面值）或 NewTypedDefinition()
//     （带转换器，如字符串转整数）为每种词法单元类型创建定义
//  2. 组装描述集：使用 NewDescription().Add() 注册所有定义，可选地通过
//     Alias() 为类型编号起别名
//  3. 切分输入：调用 Tokenize() 或 TokenizeReader() 得到词法单元序列
//
// # 示例
//
//	const (
//		tokNumber lexer.TokenType = iota
//		tokPlus
//	)
//
//	number, _ := lexer.NewTypedDefinition(tokNumber, `[0-9]+`, func(s string) (int, error) {
//		return strconv.Atoi(s)
//	})
//	plus, _ := lexer.NewDefinition(tokPlus, `\+`)
//	desc := lexer.NewDescription().Add(number, plus)
//
//	tokens, err := lexer.Tokenize("1+2", desc)
//
// 匹配总是锚定在当前输入位置；多个定义按类型编号升序依次尝试，第一个命中者
// 获胜。没有任何定义命中时返回 ErrUnexpectedCharacters。
package lexer

import (
	stderrors "errors"
	"io"
	"regexp"
	"sort"

	"github.com/pkg/errors"
)

// ErrUnexpectedCharacters 表示输入中存在任何定义都无法匹配的字符。
var ErrUnexpectedCharacters = stderrors.New("unexpected characters in tokenized string")

// TokenType 是词法单元的类型编号。
type TokenType uint64

// Token 是一个词法单元：类型编号、原始字面值，以及定义的转换器产出的值。
type Token struct {
	typ     TokenType
	literal string
	value   any
}

func (t Token) Type() TokenType {
	return t.typ
}

func (t Token) Literal() string {
	return t.literal
}

// As 以类型 T 取出词法单元的转换值。请求 string 时总是返回原始字面值。
func As[T any](t Token) (T, error) {
	if s, ok := any(t.literal).(T); ok {
		return s, nil
	}
	if v, ok := t.value.(T); ok {
		return v, nil
	}
	var zero T
	return zero, errors.Errorf("lexer: token %q holds %T, not %T", t.literal, t.value, zero)
}

// Definition 描述一种词法单元：类型编号、锚定的正则表达式和字面值转换器。
type Definition struct {
	typ     TokenType
	re      *regexp.Regexp
	convert func(string) (any, error)
}

// NewDefinition 创建一个字面值定义：匹配到的文本本身就是词法单元的值。
func NewDefinition(typ TokenType, pattern string) (*Definition, error) {
	return NewTypedDefinition(typ, pattern, func(s string) (string, error) {
		return s, nil
	})
}

// NewTypedDefinition 创建一个带转换器的定义：匹配到的文本经 convert 转换后
// 作为词法单元的值，之后可用 As[T] 取出。
func NewTypedDefinition[T any](typ TokenType, pattern string, convert func(string) (T, error)) (*Definition, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return nil, errors.Wrapf(err, "lexer: compile definition %d", typ)
	}
	return &Definition{
		typ: typ,
		re:  re,
		convert: func(s string) (any, error) {
			v, err := convert(s)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}, nil
}

func (d *Definition) Type() TokenType {
	return d.typ
}

// match 在 s 的开头尝试匹配，返回词法单元和消耗的字节数。空匹配视为未命中。
func (d *Definition) match(s string) (Token, int, error) {
	loc := d.re.FindStringIndex(s)
	if loc == nil || loc[1] == 0 {
		return Token{}, 0, nil
	}
	literal := s[:loc[1]]
	v, err := d.convert(literal)
	if err != nil {
		return Token{}, 0, errors.Wrapf(err, "lexer: convert %q", literal)
	}
	return Token{typ: d.typ, literal: literal, value: v}, loc[1], nil
}

// Description 是一组按类型编号升序排列的定义，外加字符串别名。
type Description struct {
	defs    map[TokenType]*Definition
	order   []TokenType
	aliases map[string]TokenType
}

func NewDescription() *Description {
	return &Description{
		defs:    make(map[TokenType]*Definition),
		aliases: make(map[string]TokenType),
	}
}

// Add 注册若干定义并返回 d 本身以便链式调用。同类型编号后注册者覆盖先注册者。
func (d *Description) Add(defs ...*Definition) *Description {
	for _, def := range defs {
		if _, exists := d.defs[def.typ]; !exists {
			d.order = append(d.order, def.typ)
		}
		d.defs[def.typ] = def
	}
	sort.Slice(d.order, func(i, j int) bool { return d.order[i] < d.order[j] })
	return d
}

// Alias 为类型编号登记一个字符串别名。
func (d *Description) Alias(name string, typ TokenType) *Description {
	d.aliases[name] = typ
	return d
}

func (d *Description) Get(typ TokenType) (*Definition, bool) {
	def, ok := d.defs[typ]
	return def, ok
}

func (d *Description) GetByAlias(name string) (*Definition, bool) {
	typ, ok := d.aliases[name]
	if !ok {
		return nil, false
	}
	return d.Get(typ)
}

// Tokenize 将 input 切分为词法单元序列。
func Tokenize(input string, desc *Description) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(input) {
		matched := false
		for _, typ := range desc.order {
			tok, n, err := desc.defs[typ].match(input[pos:])
			if err != nil {
				return nil, errors.WithMessagef(err, "at offset %d", pos)
			}
			if n > 0 {
				tokens = append(tokens, tok)
				pos += n
				matched = true
				break
			}
		}
		if !matched {
			return nil, errors.Wrapf(ErrUnexpectedCharacters, "at offset %d", pos)
		}
	}
	return tokens, nil
}

// TokenizeReader 读完 r 的全部内容后切分。
func TokenizeReader(r io.Reader, desc *Description) ([]Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "lexer: read input")
	}
	return Tokenize(string(data), desc)
}
