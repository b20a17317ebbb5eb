// Package html parses markup into a dom tree using golang.org/x/net/html
// as the underlying tokenizer.
//
// Unlike html.Parse, no elements are implied: the resulting tree has exactly
// the nesting written in the source.
package html

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/boxrender/dom"
)

var (
	// ErrMismatchedTag is returned when an end tag does not close the open element.
	ErrMismatchedTag = errors.New("html: mismatched end tag")
	// ErrUnclosedElement is returned when input ends with elements still open.
	ErrUnclosedElement = errors.New("html: unclosed element")
)

// rootTagName is the tag of the synthetic element wrapping several top-level nodes.
const rootTagName = "html"

// voidElements never have children and take no end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// openElement is an element whose end tag has not been seen yet.
type openElement struct {
	tagName  string
	attrs    dom.AttrMap
	children []*dom.Node
}

// Parse parses markup from a string and returns the root node.
func Parse(source string) (*dom.Node, error) {
	return ParseReader(strings.NewReader(source))
}

// ParseReader parses markup from an io.Reader and returns the root node.
// A single top-level node is returned as is; zero or several are wrapped in
// an html element.
func ParseReader(r io.Reader) (*dom.Node, error) {
	z := html.NewTokenizer(r)
	top := &openElement{tagName: rootTagName}
	stack := []*openElement{top}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("html: tokenize: %w", err)
			}
			if len(stack) > 1 {
				return nil, fmt.Errorf("%w: <%s>", ErrUnclosedElement, stack[len(stack)-1].tagName)
			}
			if len(top.children) == 1 {
				return top.children[0], nil
			}
			return dom.NewElement(rootTagName, nil, top.children), nil

		case html.TextToken:
			text := strings.TrimLeftFunc(string(z.Text()), unicode.IsSpace)
			if text == "" {
				continue
			}
			cur := stack[len(stack)-1]
			cur.children = append(cur.children, dom.NewText(text))

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attrs := convertAttributes(tok.Attr)
			cur := stack[len(stack)-1]
			if tt == html.SelfClosingTagToken || voidElements[tok.DataAtom] {
				cur.children = append(cur.children, dom.NewElement(tok.Data, attrs, nil))
				continue
			}
			stack = append(stack, &openElement{tagName: tok.Data, attrs: attrs})

		case html.EndTagToken:
			tok := z.Token()
			if voidElements[tok.DataAtom] {
				continue
			}
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: </%s> with no open element", ErrMismatchedTag, tok.Data)
			}
			cur := stack[len(stack)-1]
			if cur.tagName != tok.Data {
				return nil, fmt.Errorf("%w: expected </%s>, found </%s>", ErrMismatchedTag, cur.tagName, tok.Data)
			}
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, dom.NewElement(cur.tagName, cur.attrs, cur.children))

		case html.CommentToken, html.DoctypeToken:
			// Not part of the document tree.
		}
	}
}

// convertAttributes converts tokenizer attributes to an AttrMap. The first
// occurrence of a repeated attribute wins.
func convertAttributes(attrs []html.Attribute) dom.AttrMap {
	result := make(dom.AttrMap, len(attrs))
	for _, a := range attrs {
		if _, seen := result[a.Key]; seen {
			continue
		}
		result[a.Key] = a.Val
	}
	return result
}
