// Package dom provides the immutable document tree consumed by the style resolver.
package dom

// NodeType represents the type of a Node.
type NodeType uint16

const (
	// ElementNode represents an element with a tag name, attributes and children.
	ElementNode NodeType = 1
	// TextNode represents a text leaf.
	TextNode NodeType = 3
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	default:
		return "UNKNOWN"
	}
}
