package dom

import (
	"strings"
)

// AttrMap maps attribute names to their values.
type AttrMap map[string]string

// Node represents a node in the document tree. Element nodes carry a tag name
// and attributes, text nodes carry their text. Nodes are not mutated after
// the parser hands them out.
type Node struct {
	nodeType   NodeType
	tagName    string
	text       string
	attributes AttrMap
	children   []*Node
}

// NewText creates a text leaf.
func NewText(data string) *Node {
	return &Node{nodeType: TextNode, text: data}
}

// NewElement creates an element node. A nil attrs map is treated as empty.
func NewElement(tagName string, attrs AttrMap, children []*Node) *Node {
	if attrs == nil {
		attrs = AttrMap{}
	}
	return &Node{
		nodeType:   ElementNode,
		tagName:    tagName,
		attributes: attrs,
		children:   children,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.nodeType == ElementNode
}

// TagName returns the element's tag name, or "" for text nodes.
func (n *Node) TagName() string {
	return n.tagName
}

// Text returns the text payload of a text node, or "" for elements.
func (n *Node) Text() string {
	return n.text
}

// Children returns the node's children in document order.
func (n *Node) Children() []*Node {
	return n.children
}

// GetAttribute returns the value of the named attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	if n.attributes == nil {
		return "", false
	}
	v, ok := n.attributes[name]
	return v, ok
}

// Attributes returns a copy of the element's attributes.
func (n *Node) Attributes() AttrMap {
	attrs := make(AttrMap, len(n.attributes))
	for k, v := range n.attributes {
		attrs[k] = v
	}
	return attrs
}

// ID returns the id attribute, if present.
func (n *Node) ID() (string, bool) {
	return n.GetAttribute("id")
}

// Classes returns the set of class names from the class attribute.
func (n *Node) Classes() map[string]struct{} {
	classes := make(map[string]struct{})
	list, ok := n.GetAttribute("class")
	if !ok {
		return classes
	}
	for _, c := range strings.Fields(list) {
		classes[c] = struct{}{}
	}
	return classes
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.collectTextContent(&sb)
	return sb.String()
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	if n.nodeType == TextNode {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.collectTextContent(sb)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.children {
		total += c.Count()
	}
	return total
}
