package layout

import (
	"github.com/chrisuehlinger/boxrender/css"
)

var (
	autoValue = css.NewKeyword("auto")
	zeroValue = css.NewLength(0)
)

// Layout lays out the box and its descendants inside the containing block.
// The containing block's content height is the height already used by
// earlier siblings; the caller advances it after Layout returns.
//
// Only block boxes are laid out. Inline and anonymous boxes keep zero
// dimensions.
func (b *LayoutBox) Layout(containing *Dimensions) error {
	if containing == nil {
		return ErrNoContainingBlock
	}
	switch b.BoxType {
	case BlockBox:
		return b.layoutBlock(containing)
	default:
		return nil
	}
}

func (b *LayoutBox) layoutBlock(containing *Dimensions) error {
	style, err := b.Style()
	if err != nil {
		return err
	}

	// Width depends on the parent, height on the children.
	b.calculateBlockWidth(style, containing)
	b.calculateBlockPosition(style, containing)
	if err := b.layoutBlockChildren(); err != nil {
		return err
	}
	b.calculateBlockHeight(style)
	return nil
}

// edge resolves a box edge property through its shorthand, defaulting to 0px.
func edge(style *css.StyledNode, name, shorthand string) css.Value {
	return style.Lookup(name, shorthand, zeroValue)
}

// calculateBlockWidth solves width and horizontal margins per CSS2.1
// section 10.3.3.
func (b *LayoutBox) calculateBlockWidth(style *css.StyledNode, containing *Dimensions) {
	width, ok := style.Value("width")
	if !ok {
		width = autoValue
	}

	marginLeft := edge(style, "margin-left", "margin")
	marginRight := edge(style, "margin-right", "margin")
	borderLeft := edge(style, "border-left-width", "border-width")
	borderRight := edge(style, "border-right-width", "border-width")
	paddingLeft := edge(style, "padding-left", "padding")
	paddingRight := edge(style, "padding-right", "padding")

	total := marginLeft.ToPx() + marginRight.ToPx() +
		borderLeft.ToPx() + borderRight.ToPx() +
		paddingLeft.ToPx() + paddingRight.ToPx() +
		width.ToPx()

	// An over-constrained box treats auto margins as zero.
	if !width.IsKeyword("auto") && total > containing.Content.Width {
		if marginLeft.IsKeyword("auto") {
			marginLeft = zeroValue
		}
		if marginRight.IsKeyword("auto") {
			marginRight = zeroValue
		}
	}

	underflow := containing.Content.Width - total

	widthAuto := width.IsKeyword("auto")
	leftAuto := marginLeft.IsKeyword("auto")
	rightAuto := marginRight.IsKeyword("auto")

	switch {
	case !widthAuto && !leftAuto && !rightAuto:
		marginRight = css.NewLength(marginRight.ToPx() + underflow)
	case !widthAuto && !leftAuto && rightAuto:
		marginRight = css.NewLength(underflow)
	case !widthAuto && leftAuto && !rightAuto:
		marginLeft = css.NewLength(underflow)
	case widthAuto:
		if leftAuto {
			marginLeft = zeroValue
		}
		if rightAuto {
			marginRight = zeroValue
		}
		if underflow >= 0 {
			width = css.NewLength(underflow)
		} else {
			width = zeroValue
			marginRight = css.NewLength(marginRight.ToPx() + underflow)
		}
	default:
		marginLeft = css.NewLength(underflow / 2)
		marginRight = css.NewLength(underflow / 2)
	}

	d := &b.Dimensions
	d.Content.Width = width.ToPx()
	d.Padding.Left = paddingLeft.ToPx()
	d.Padding.Right = paddingRight.ToPx()
	d.Border.Left = borderLeft.ToPx()
	d.Border.Right = borderRight.ToPx()
	d.Margin.Left = marginLeft.ToPx()
	d.Margin.Right = marginRight.ToPx()
}

// calculateBlockPosition places the box below the content already laid out
// in the containing block.
func (b *LayoutBox) calculateBlockPosition(style *css.StyledNode, containing *Dimensions) {
	d := &b.Dimensions

	d.Margin.Top = edge(style, "margin-top", "margin").ToPx()
	d.Margin.Bottom = edge(style, "margin-bottom", "margin").ToPx()
	d.Border.Top = edge(style, "border-top-width", "border-width").ToPx()
	d.Border.Bottom = edge(style, "border-bottom-width", "border-width").ToPx()
	d.Padding.Top = edge(style, "padding-top", "padding").ToPx()
	d.Padding.Bottom = edge(style, "padding-bottom", "padding").ToPx()

	d.Content.X = containing.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = containing.Content.Y + containing.Content.Height +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren stacks the children vertically, growing the content
// height by each child's margin box.
func (b *LayoutBox) layoutBlockChildren() error {
	d := &b.Dimensions
	for _, child := range b.Children {
		if err := child.Layout(d); err != nil {
			return err
		}
		d.Content.Height += child.Dimensions.MarginBox().Height
	}
	return nil
}

// calculateBlockHeight applies an explicit px height over the height of the
// children.
func (b *LayoutBox) calculateBlockHeight(style *css.StyledNode) {
	if h, ok := style.Value("height"); ok && h.Type == css.LengthValue {
		b.Dimensions.Content.Height = h.ToPx()
	}
}
