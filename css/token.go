// Package css tokenizes and parses stylesheets and resolves the cascade into
// a styled tree.
//
// The tokenizer follows the shape of CSS Syntax Module Level 3 §4 but only
// produces the token kinds the simple-selector grammar consumes.
// Reference: https://www.w3.org/TR/css-syntax-3/
package css

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of a CSS token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenAtKeyword
	TokenHash
	TokenString
	TokenDelim
	TokenNumber
	TokenPercentage
	TokenDimension
	TokenWhitespace
	TokenColon
	TokenSemicolon
	TokenComma
	TokenOpenSquare  // [
	TokenCloseSquare // ]
	TokenOpenParen   // (
	TokenCloseParen  // )
	TokenOpenCurly   // {
	TokenCloseCurly  // }
)

// Token represents a CSS token.
type Token struct {
	Type     TokenType
	Value    string  // Name for idents, hashes and at-keywords; text for strings; source repr for numbers
	NumValue float64 // Numeric value for number/percentage/dimension
	Unit     string  // Unit for dimension tokens
	Delim    rune    // The delimiter character for delim tokens
	Line     int
	Column   int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "<EOF>"
	case TokenIdent:
		return fmt.Sprintf("<IDENT %q>", t.Value)
	case TokenAtKeyword:
		return fmt.Sprintf("<AT-KEYWORD %q>", t.Value)
	case TokenHash:
		return fmt.Sprintf("<HASH %q>", t.Value)
	case TokenString:
		return fmt.Sprintf("<STRING %q>", t.Value)
	case TokenDelim:
		return fmt.Sprintf("<DELIM %q>", string(t.Delim))
	case TokenNumber:
		return fmt.Sprintf("<NUMBER %v>", t.NumValue)
	case TokenPercentage:
		return fmt.Sprintf("<PERCENTAGE %v%%>", t.NumValue)
	case TokenDimension:
		return fmt.Sprintf("<DIMENSION %v%s>", t.NumValue, t.Unit)
	case TokenWhitespace:
		return "<WHITESPACE>"
	case TokenColon:
		return "<COLON>"
	case TokenSemicolon:
		return "<SEMICOLON>"
	case TokenComma:
		return "<COMMA>"
	case TokenOpenSquare:
		return "<[>"
	case TokenCloseSquare:
		return "<]>"
	case TokenOpenParen:
		return "<(>"
	case TokenCloseParen:
		return "<)>"
	case TokenOpenCurly:
		return "<{>"
	case TokenCloseCurly:
		return "<}>"
	default:
		return fmt.Sprintf("<UNKNOWN %d>", t.Type)
	}
}

// Tokenizer splits CSS source into tokens. Comments are dropped.
type Tokenizer struct {
	input  []rune
	pos    int
	line   int
	column int
}

// NewTokenizer creates a new CSS tokenizer.
func NewTokenizer(input string) *Tokenizer {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return &Tokenizer{
		input:  []rune(input),
		line:   1,
		column: 1,
	}
}

// Tokenize returns all tokens of input, ending with a TokenEOF.
func Tokenize(input string) []Token {
	t := NewTokenizer(input)
	var tokens []Token
	for {
		tok := t.Next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) peek() rune {
	return t.peekN(0)
}

func (t *Tokenizer) peekN(n int) rune {
	pos := t.pos + n
	if pos >= len(t.input) || pos < 0 {
		return -1
	}
	return t.input[pos]
}

func (t *Tokenizer) consume() rune {
	if t.pos >= len(t.input) {
		return -1
	}
	r := t.input[t.pos]
	t.pos++
	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}
	return r
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameStartCodePoint(r rune) bool {
	return isLetter(r) || r >= 0x80 || r == '_'
}

func isNameCodePoint(r rune) bool {
	return isNameStartCodePoint(r) || isDigit(r) || r == '-'
}

// startsIdentifier checks if the next code points would start an identifier.
func (t *Tokenizer) startsIdentifier() bool {
	first := t.peek()
	if isNameStartCodePoint(first) {
		return true
	}
	if first == '-' {
		second := t.peekN(1)
		return isNameStartCodePoint(second) || second == '-'
	}
	return false
}

// startsNumber checks if the next code points would start a number.
func (t *Tokenizer) startsNumber() bool {
	first := t.peek()
	if isDigit(first) {
		return true
	}
	if first == '+' || first == '-' {
		second := t.peekN(1)
		return isDigit(second) || (second == '.' && isDigit(t.peekN(2)))
	}
	if first == '.' {
		return isDigit(t.peekN(1))
	}
	return false
}

func (t *Tokenizer) consumeName() string {
	var sb strings.Builder
	for isNameCodePoint(t.peek()) {
		sb.WriteRune(t.consume())
	}
	return sb.String()
}

func (t *Tokenizer) consumeComment() {
	t.consume() // /
	t.consume() // *
	for t.peek() != -1 {
		if t.peek() == '*' && t.peekN(1) == '/' {
			t.consume()
			t.consume()
			return
		}
		t.consume()
	}
}

func (t *Tokenizer) consumeNumericToken(line, col int) Token {
	var repr strings.Builder
	if t.peek() == '+' || t.peek() == '-' {
		repr.WriteRune(t.consume())
	}
	for isDigit(t.peek()) {
		repr.WriteRune(t.consume())
	}
	if t.peek() == '.' && isDigit(t.peekN(1)) {
		repr.WriteRune(t.consume())
		for isDigit(t.peek()) {
			repr.WriteRune(t.consume())
		}
	}
	val, _ := strconv.ParseFloat(repr.String(), 64)

	tok := Token{Value: repr.String(), NumValue: val, Line: line, Column: col}
	switch {
	case t.startsIdentifier():
		tok.Type = TokenDimension
		tok.Unit = t.consumeName()
	case t.peek() == '%':
		t.consume()
		tok.Type = TokenPercentage
	default:
		tok.Type = TokenNumber
	}
	return tok
}

func (t *Tokenizer) consumeString(quote rune, line, col int) Token {
	var sb strings.Builder
	for {
		r := t.consume()
		switch r {
		case quote, -1, '\n':
			return Token{Type: TokenString, Value: sb.String(), Line: line, Column: col}
		case '\\':
			if next := t.consume(); next != -1 {
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// Next consumes and returns the next token.
func (t *Tokenizer) Next() Token {
	for t.peek() == '/' && t.peekN(1) == '*' {
		t.consumeComment()
	}

	line, col := t.line, t.column
	r := t.peek()
	simple := func(tt TokenType) Token {
		t.consume()
		return Token{Type: tt, Line: line, Column: col}
	}

	switch {
	case r == -1:
		return Token{Type: TokenEOF, Line: line, Column: col}
	case isWhitespace(r):
		for isWhitespace(t.peek()) {
			t.consume()
		}
		return Token{Type: TokenWhitespace, Line: line, Column: col}
	case r == '"' || r == '\'':
		t.consume()
		return t.consumeString(r, line, col)
	case r == '#' && isNameCodePoint(t.peekN(1)):
		t.consume()
		return Token{Type: TokenHash, Value: t.consumeName(), Line: line, Column: col}
	case r == '@' && (isNameStartCodePoint(t.peekN(1)) || t.peekN(1) == '-'):
		t.consume()
		return Token{Type: TokenAtKeyword, Value: t.consumeName(), Line: line, Column: col}
	case t.startsNumber():
		return t.consumeNumericToken(line, col)
	case t.startsIdentifier():
		return Token{Type: TokenIdent, Value: t.consumeName(), Line: line, Column: col}
	}

	switch r {
	case ':':
		return simple(TokenColon)
	case ';':
		return simple(TokenSemicolon)
	case ',':
		return simple(TokenComma)
	case '[':
		return simple(TokenOpenSquare)
	case ']':
		return simple(TokenCloseSquare)
	case '(':
		return simple(TokenOpenParen)
	case ')':
		return simple(TokenCloseParen)
	case '{':
		return simple(TokenOpenCurly)
	case '}':
		return simple(TokenCloseCurly)
	}

	t.consume()
	return Token{Type: TokenDelim, Delim: r, Line: line, Column: col}
}
