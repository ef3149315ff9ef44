// Package parser 提供了在词法单元序列上工作的解析器组合子片段。
//
// 组合子围绕 Parser[T] 组织：Term 匹配单个指定类型的词法单元，Map 转换
// 匹配结果，Kleene 贪婪地匹配零个或多个。KleeneSkip 在每个元素之前消耗
// 跳过解析器（例如空白）。解析失败时游标回退到尝试前的位置。
package parser

import "github.com/saltfishpr/futures/lexer"

// Cursor 维护在词法单元序列上的解析位置。
type Cursor struct {
	tokens []lexer.Token
	pos    int
}

func NewCursor(tokens []lexer.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Pos 返回当前位置，可与 seek 配对实现回退。
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining 返回尚未消耗的词法单元数量。
func (c *Cursor) Remaining() int {
	return len(c.tokens) - c.pos
}

func (c *Cursor) next() (lexer.Token, bool) {
	if c.pos >= len(c.tokens) {
		return lexer.Token{}, false
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, true
}

func (c *Cursor) seek(pos int) {
	c.pos = pos
}

// Parser 尝试在游标当前位置匹配一个 T。失败时必须将游标恢复到调用前的
// 位置。
type Parser[T any] struct {
	match func(*Cursor) (T, bool)
}

// New 从一个匹配函数构造解析器。回退由 Match 统一处理，匹配函数本身无须
// 恢复游标。
func New[T any](match func(*Cursor) (T, bool)) Parser[T] {
	return Parser[T]{match: match}
}

// Match 在游标当前位置应用解析器。
func (p Parser[T]) Match(c *Cursor) (T, bool) {
	start := c.Pos()
	v, ok := p.match(c)
	if !ok {
		c.seek(start)
	}
	return v, ok
}

// Term 匹配一个指定类型的词法单元。
func Term(typ lexer.TokenType) Parser[lexer.Token] {
	return New(func(c *Cursor) (lexer.Token, bool) {
		tok, ok := c.next()
		if !ok || tok.Type() != typ {
			return lexer.Token{}, false
		}
		return tok, true
	})
}

// Map 用 fn 转换 p 的匹配结果。
func Map[T, R any](p Parser[T], fn func(T) R) Parser[R] {
	return New(func(c *Cursor) (R, bool) {
		v, ok := p.Match(c)
		if !ok {
			var zero R
			return zero, false
		}
		return fn(v), true
	})
}

// Kleene 贪婪地匹配零个或多个 p。它总是成功，最少产出空切片。
func Kleene[T any](p Parser[T]) Parser[[]T] {
	return New(func(c *Cursor) ([]T, bool) {
		var out []T
		for {
			v, ok := p.Match(c)
			if !ok {
				return out, true
			}
			out = append(out, v)
		}
	})
}

// KleeneSkip 与 Kleene 相同，但在每个元素之前尽可能地消耗 skip（例如
// 空白单元）。
func KleeneSkip[T, S any](p Parser[T], skip Parser[S]) Parser[[]T] {
	return New(func(c *Cursor) ([]T, bool) {
		var out []T
		for {
			for {
				if _, ok := skip.Match(c); !ok {
					break
				}
			}
			v, ok := p.Match(c)
			if !ok {
				return out, true
			}
			out = append(out, v)
		}
	})
}
