// Package layout builds the box tree for a styled document and solves the
// CSS2 block formatting model over it.
package layout

import (
	"errors"
	"fmt"

	"github.com/chrisuehlinger/boxrender/css"
)

var (
	// ErrRootDisplayNone is returned when the root element generates no box.
	ErrRootDisplayNone = errors.New("layout: root node has display: none")
	// ErrAnonymousBox is returned when the style of an anonymous box is read.
	ErrAnonymousBox = errors.New("layout: anonymous box has no style node")
	// ErrNoContainingBlock is returned when a block is laid out without a
	// containing block.
	ErrNoContainingBlock = errors.New("layout: no containing block")
)

// Dimensions represents the dimensions of a layout box.
type Dimensions struct {
	// Content is the position and size of the content area relative to the
	// document origin.
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// Rect represents a rectangular area.
type Rect struct {
	X, Y, Width, Height float64
}

// EdgeSizes represents the sizes of edges (top, right, bottom, left).
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// BoxType represents the type of layout box.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	// AnonymousBox wraps a run of inline children of a block.
	AnonymousBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case AnonymousBox:
		return "anonymous"
	default:
		return fmt.Sprintf("BoxType(%d)", int(t))
	}
}

// LayoutBox represents a box in the layout tree. StyledNode is nil for
// anonymous boxes.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	StyledNode *css.StyledNode
	Children   []*LayoutBox
}

// NewLayoutBox creates a box with zero dimensions and no children.
func NewLayoutBox(boxType BoxType, sn *css.StyledNode) *LayoutBox {
	return &LayoutBox{BoxType: boxType, StyledNode: sn}
}

// Style returns the styled node that generated the box.
func (b *LayoutBox) Style() (*css.StyledNode, error) {
	if b.BoxType == AnonymousBox || b.StyledNode == nil {
		return nil, ErrAnonymousBox
	}
	return b.StyledNode, nil
}

// Count returns the number of boxes in the subtree.
func (b *LayoutBox) Count() int {
	total := 1
	for _, c := range b.Children {
		total += c.Count()
	}
	return total
}

// LayoutTree builds the layout tree for root and solves it inside the
// viewport. Only the viewport's width and origin are used; its height is the
// painter's concern, so layout starts from an empty accumulated height.
func LayoutTree(root *css.StyledNode, viewport Dimensions) (*LayoutBox, error) {
	box, err := BuildLayoutTree(root)
	if err != nil {
		return nil, err
	}

	viewport.Content.Height = 0
	if err := box.Layout(&viewport); err != nil {
		return nil, err
	}
	return box, nil
}

// PaddingBox returns the area covered by content and padding.
func (d *Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox returns the area covered by content, padding, and border.
func (d *Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox returns the area covered by content, padding, border, and margin.
func (d *Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// ExpandedBy returns a rectangle expanded by the given edge sizes.
func (r Rect) ExpandedBy(edge EdgeSizes) Rect {
	return Rect{
		X:      r.X - edge.Left,
		Y:      r.Y - edge.Top,
		Width:  r.Width + edge.Left + edge.Right,
		Height: r.Height + edge.Top + edge.Bottom,
	}
}
