package layout

import (
	"github.com/chrisuehlinger/boxrender/css"
)

// BuildLayoutTree constructs the box tree for a styled tree. Nodes with
// display: none generate no boxes, and inline children of a block are grouped
// into anonymous boxes.
func BuildLayoutTree(root *css.StyledNode) (*LayoutBox, error) {
	var boxType BoxType
	switch root.Display() {
	case css.DisplayBlock:
		boxType = BlockBox
	case css.DisplayInline:
		boxType = InlineBox
	default:
		return nil, ErrRootDisplayNone
	}

	box := NewLayoutBox(boxType, root)
	for _, child := range root.Children {
		switch child.Display() {
		case css.DisplayBlock:
			childBox, err := BuildLayoutTree(child)
			if err != nil {
				return nil, err
			}
			box.Children = append(box.Children, childBox)
		case css.DisplayInline:
			childBox, err := BuildLayoutTree(child)
			if err != nil {
				return nil, err
			}
			container := box.inlineContainer()
			container.Children = append(container.Children, childBox)
		case css.DisplayNone:
			// Skipped with its subtree.
		}
	}
	return box, nil
}

// inlineContainer returns the box that new inline children go into. A block
// reuses its trailing anonymous box or appends a new one, so consecutive
// inline children share a single anonymous box.
func (b *LayoutBox) inlineContainer() *LayoutBox {
	if b.BoxType != BlockBox {
		return b
	}
	if n := len(b.Children); n > 0 && b.Children[n-1].BoxType == AnonymousBox {
		return b.Children[n-1]
	}
	anon := NewLayoutBox(AnonymousBox, nil)
	b.Children = append(b.Children, anon)
	return anon
}
