package css

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Stylesheet represents a parsed CSS stylesheet: an ordered list of rules.
type Stylesheet struct {
	Rules []Rule
}

// Rule represents a style rule: a selector list and its declarations.
// Selectors are ordered by specificity, most specific first.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// Declaration represents a CSS property declaration.
type Declaration struct {
	Name      string
	Value     Value
	Important bool
}

// ValueType represents the type of CSS value.
type ValueType int

const (
	KeywordValue ValueType = iota
	LengthValue
	PercentageValue
	ColorValue
)

// UnitPx is the only supported length unit.
const UnitPx = "px"

// Value represents a CSS value.
type Value struct {
	Type       ValueType
	Keyword    string
	Length     float64
	Unit       string
	Percentage float64
	Color      Color
}

// NewKeyword returns a keyword value.
func NewKeyword(keyword string) Value {
	return Value{Type: KeywordValue, Keyword: keyword}
}

// NewLength returns a length in pixels.
func NewLength(px float64) Value {
	return Value{Type: LengthValue, Length: px, Unit: UnitPx}
}

// NewPercentage returns a percentage value.
func NewPercentage(pct float64) Value {
	return Value{Type: PercentageValue, Percentage: pct}
}

// NewColor returns a color value.
func NewColor(c Color) Value {
	return Value{Type: ColorValue, Color: c}
}

// ToPx returns the value in pixels. Anything that is not a length is 0.
func (v Value) ToPx() float64 {
	if v.Type == LengthValue && v.Unit == UnitPx {
		return v.Length
	}
	return 0
}

// IsKeyword reports whether v is the given keyword.
func (v Value) IsKeyword(keyword string) bool {
	return v.Type == KeywordValue && v.Keyword == keyword
}

func (v Value) String() string {
	switch v.Type {
	case KeywordValue:
		return v.Keyword
	case LengthValue:
		return fmt.Sprintf("%g%s", v.Length, v.Unit)
	case PercentageValue:
		return fmt.Sprintf("%g%%", v.Percentage)
	case ColorValue:
		return ColorToString(v.Color)
	default:
		return ""
	}
}

// ParseError describes a declaration or rule that was dropped while parsing.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// boxShorthands lists the shorthands that expand into four edge longhands
// when given more than one value, in top/right/bottom/left order.
var boxShorthands = map[string][4]string{
	"margin":       {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":      {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-width": {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
}

type parser struct {
	tokens []Token
	pos    int
	errs   []error
}

// Parse parses a stylesheet. Invalid declarations and rules are dropped as
// CSS error recovery requires; the returned error joins a *ParseError for each
// of them and is nil when the source was entirely valid. The stylesheet is
// never nil.
func Parse(source string) (*Stylesheet, error) {
	p := &parser{tokens: Tokenize(source)}
	ss := &Stylesheet{}

	for {
		p.skipWhitespace()
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return ss, errors.Join(p.errs...)
		case TokenAtKeyword:
			p.skipAtRule()
		case TokenCloseCurly:
			p.errorf(tok, "unexpected '}'")
			p.consume()
		default:
			if rule, ok := p.parseRule(); ok {
				ss.Rules = append(ss.Rules, rule)
			}
		}
	}
}

// ParseDeclarations parses a bare declaration list, as found in a style
// attribute.
func ParseDeclarations(source string) ([]Declaration, error) {
	p := &parser{}
	tokens := Tokenize(source)
	decls := p.parseDeclarationList(tokens[:len(tokens)-1])
	return decls, errors.Join(p.errs...)
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) skipWhitespace() {
	for p.current().Type == TokenWhitespace {
		p.consume()
	}
}

func (p *parser) errorf(tok Token, format string, args ...any) {
	p.errs = append(p.errs, &ParseError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)})
}

// skipAtRule skips an at-rule up to its terminating ';' or its block.
func (p *parser) skipAtRule() {
	p.consume()
	for {
		switch p.current().Type {
		case TokenEOF:
			return
		case TokenSemicolon:
			p.consume()
			return
		case TokenOpenCurly:
			p.consumeBlock()
			return
		default:
			p.consume()
		}
	}
}

// consumeBlock consumes a {}-block and returns the tokens inside it. The
// current token must be '{'. A block left open at EOF ends there.
func (p *parser) consumeBlock() []Token {
	open := p.consume()
	depth := 1
	var inner []Token
	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			p.errorf(open, "unterminated block")
			return inner
		case TokenOpenCurly:
			depth++
		case TokenCloseCurly:
			depth--
			if depth == 0 {
				p.consume()
				return inner
			}
		}
		inner = append(inner, p.consume())
	}
}

// parseRule parses a qualified rule. It reports false when the rule had to
// be skipped.
func (p *parser) parseRule() (Rule, bool) {
	start := p.current()
	var prelude []Token
	for p.current().Type != TokenOpenCurly {
		if p.current().Type == TokenEOF {
			p.errorf(start, "unexpected end of input in selector list")
			return Rule{}, false
		}
		prelude = append(prelude, p.consume())
	}
	block := p.consumeBlock()

	selectors, err := parseSelectorList(prelude)
	if err != nil {
		p.errs = append(p.errs, err)
		return Rule{}, false
	}
	return Rule{
		Selectors:    selectors,
		Declarations: p.parseDeclarationList(block),
	}, true
}

// parseSelectorList parses comma-separated simple selectors and orders them
// by specificity, most specific first.
func parseSelectorList(tokens []Token) ([]Selector, error) {
	var selectors []Selector
	var part []Token
	flush := func(at Token) error {
		sel, err := parseSimpleSelector(trimWhitespace(part), at)
		if err != nil {
			return err
		}
		selectors = append(selectors, sel)
		part = nil
		return nil
	}

	at := Token{Line: 1, Column: 1}
	if len(tokens) > 0 {
		at = tokens[0]
	}
	for _, tok := range tokens {
		if tok.Type == TokenComma {
			if err := flush(at); err != nil {
				return nil, err
			}
			at = tok
			continue
		}
		part = append(part, tok)
	}
	if err := flush(at); err != nil {
		return nil, err
	}

	sort.SliceStable(selectors, func(i, j int) bool {
		return selectors[j].Specificity().Less(selectors[i].Specificity())
	})
	return selectors, nil
}

func parseSimpleSelector(tokens []Token, at Token) (Selector, error) {
	if len(tokens) == 0 {
		return Selector{}, &ParseError{Line: at.Line, Column: at.Column, Msg: "empty selector"}
	}

	var sel Selector
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Type == TokenIdent && i == 0:
			sel.TagName = strings.ToLower(tok.Value)
		case tok.Type == TokenDelim && tok.Delim == '*' && i == 0:
			// Universal selector: no constraint.
		case tok.Type == TokenHash:
			sel.ID = tok.Value
		case tok.Type == TokenDelim && tok.Delim == '.' && i+1 < len(tokens) && tokens[i+1].Type == TokenIdent:
			i++
			sel.Classes = append(sel.Classes, tokens[i].Value)
		default:
			return Selector{}, &ParseError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf("unsupported selector token %s", tok)}
		}
	}
	return sel, nil
}

// parseDeclarationList parses the inside of a declaration block.
func (p *parser) parseDeclarationList(tokens []Token) []Declaration {
	var decls []Declaration
	var chunk []Token
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case TokenOpenParen, TokenOpenSquare, TokenOpenCurly:
			depth++
		case TokenCloseParen, TokenCloseSquare, TokenCloseCurly:
			depth--
		case TokenSemicolon:
			if depth == 0 {
				decls = append(decls, p.parseDeclaration(chunk)...)
				chunk = nil
				continue
			}
		}
		chunk = append(chunk, tok)
	}
	return append(decls, p.parseDeclaration(chunk)...)
}

// parseDeclaration parses one `name: value [!important]` chunk. Box
// shorthands with several values expand into their longhands.
func (p *parser) parseDeclaration(tokens []Token) []Declaration {
	tokens = trimWhitespace(tokens)
	if len(tokens) == 0 {
		return nil
	}

	nameTok := tokens[0]
	if nameTok.Type != TokenIdent {
		p.errorf(nameTok, "expected property name, found %s", nameTok)
		return nil
	}
	name := strings.ToLower(nameTok.Value)

	rest := trimWhitespace(tokens[1:])
	if len(rest) == 0 || rest[0].Type != TokenColon {
		p.errorf(nameTok, "expected ':' after %q", name)
		return nil
	}
	rest = trimWhitespace(rest[1:])

	important := false
	if n := len(rest); n >= 2 && rest[n-1].Type == TokenIdent && strings.EqualFold(rest[n-1].Value, "important") {
		bang := trimWhitespace(rest[:n-1])
		if m := len(bang); m > 0 && bang[m-1].Type == TokenDelim && bang[m-1].Delim == '!' {
			important = true
			rest = trimWhitespace(bang[:m-1])
		}
	}

	var values []Value
	for _, tok := range rest {
		if tok.Type == TokenWhitespace {
			continue
		}
		v, err := parseValueToken(tok)
		if err != nil {
			p.errs = append(p.errs, err)
			return nil
		}
		values = append(values, v)
	}

	switch {
	case len(values) == 0:
		p.errorf(nameTok, "missing value for %q", name)
		return nil
	case len(values) == 1:
		return []Declaration{{Name: name, Value: values[0], Important: important}}
	}

	longhands, ok := boxShorthands[name]
	if !ok || len(values) > 4 {
		p.errorf(nameTok, "unsupported multi-value declaration for %q", name)
		return nil
	}
	// top right bottom left, with CSS's omitted-value rules.
	var edges [4]Value
	switch len(values) {
	case 2:
		edges = [4]Value{values[0], values[1], values[0], values[1]}
	case 3:
		edges = [4]Value{values[0], values[1], values[2], values[1]}
	case 4:
		edges = [4]Value{values[0], values[1], values[2], values[3]}
	}
	decls := make([]Declaration, 4)
	for i, longhand := range longhands {
		decls[i] = Declaration{Name: longhand, Value: edges[i], Important: important}
	}
	return decls
}

func parseValueToken(tok Token) (Value, error) {
	fail := func(format string, args ...any) (Value, error) {
		return Value{}, &ParseError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)}
	}

	switch tok.Type {
	case TokenDimension:
		if strings.ToLower(tok.Unit) != UnitPx {
			return fail("unrecognized unit %q", tok.Unit)
		}
		return NewLength(tok.NumValue), nil
	case TokenNumber:
		if tok.NumValue != 0 {
			return fail("number %v without unit", tok.NumValue)
		}
		return NewLength(0), nil
	case TokenPercentage:
		return NewPercentage(tok.NumValue), nil
	case TokenHash:
		c, ok := ParseColor("#" + tok.Value)
		if !ok {
			return fail("invalid color #%s", tok.Value)
		}
		return NewColor(c), nil
	case TokenIdent:
		keyword := strings.ToLower(tok.Value)
		if c, ok := ParseColor(keyword); ok {
			return NewColor(c), nil
		}
		return NewKeyword(keyword), nil
	default:
		return fail("unexpected %s in value", tok)
	}
}

func trimWhitespace(tokens []Token) []Token {
	for len(tokens) > 0 && tokens[0].Type == TokenWhitespace {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].Type == TokenWhitespace {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
