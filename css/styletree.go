package css

import (
	"github.com/chrisuehlinger/boxrender/dom"
)

// StyledNode represents a document node with its resolved property map.
type StyledNode struct {
	Node            *dom.Node
	SpecifiedValues PropertyMap
	Children        []*StyledNode
}

// Display is the box a node generates.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// StyleTree builds styled trees against a set of stylesheets.
type StyleTree struct {
	Root     *StyledNode
	Resolver *StyleResolver
}

// NewStyleTree creates a new style tree with no stylesheets.
func NewStyleTree() *StyleTree {
	return &StyleTree{Resolver: NewStyleResolver()}
}

// AddStylesheet parses and adds an author stylesheet. The valid part of the
// stylesheet is added even when an error is returned.
func (st *StyleTree) AddStylesheet(source string) error {
	ss, err := Parse(source)
	st.Resolver.AddAuthorStylesheet(ss)
	return err
}

// SetInlineStyles enables the style attribute in the cascade.
func (st *StyleTree) SetInlineStyles(on bool) {
	st.Resolver.SetInlineStyles(on)
}

// SetImportantDeclarations enables the !important pass.
func (st *StyleTree) SetImportantDeclarations(on bool) {
	st.Resolver.SetImportantDeclarations(on)
}

// SetUserAgentStylesheet sets the stylesheet that cascades beneath all
// author stylesheets.
func (st *StyleTree) SetUserAgentStylesheet(ss *Stylesheet) {
	st.Resolver.SetUserAgentStylesheet(ss)
}

// BuildStyleTree constructs a styled tree with the same shape as the
// document tree. The root inherits from DefaultValues.
func (st *StyleTree) BuildStyleTree(root *dom.Node) *StyledNode {
	st.Root = st.buildStyledNode(root, DefaultValues())
	return st.Root
}

func (st *StyleTree) buildStyledNode(node *dom.Node, parent PropertyMap) *StyledNode {
	sn := &StyledNode{
		Node:            node,
		SpecifiedValues: st.Resolver.ResolveStyles(node, parent),
	}
	children := node.Children()
	if len(children) > 0 {
		sn.Children = make([]*StyledNode, 0, len(children))
	}
	for _, child := range children {
		sn.Children = append(sn.Children, st.buildStyledNode(child, sn.SpecifiedValues))
	}
	return sn
}

// Style builds the styled tree of root against the given author stylesheets.
func Style(root *dom.Node, stylesheets ...*Stylesheet) *StyledNode {
	st := &StyleTree{Resolver: NewStyleResolver(stylesheets...)}
	return st.BuildStyleTree(root)
}

// Value returns the value of a property, if set.
func (sn *StyledNode) Value(name string) (Value, bool) {
	v, ok := sn.SpecifiedValues[name]
	return v, ok
}

// Lookup returns the value of name, falling back to fallbackName and then
// to def.
func (sn *StyledNode) Lookup(name, fallbackName string, def Value) Value {
	if v, ok := sn.Value(name); ok {
		return v
	}
	if v, ok := sn.Value(fallbackName); ok {
		return v
	}
	return def
}

// Display returns the display type, treating absent or unsupported values
// as inline.
func (sn *StyledNode) Display() Display {
	v, ok := sn.Value("display")
	if !ok || v.Type != KeywordValue {
		return DisplayInline
	}
	switch v.Keyword {
	case "block":
		return DisplayBlock
	case "none":
		return DisplayNone
	default:
		return DisplayInline
	}
}

// Count returns the number of styled nodes in the subtree.
func (sn *StyledNode) Count() int {
	total := 1
	for _, c := range sn.Children {
		total += c.Count()
	}
	return total
}
