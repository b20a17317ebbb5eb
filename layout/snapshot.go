package layout

// Snapshot is a plain view of a layout box for serialization.
type Snapshot struct {
	Type     string     `json:"type"`
	Tag      string     `json:"tag,omitempty"`
	Text     string     `json:"text,omitempty"`
	Content  Rect       `json:"content"`
	Padding  EdgeSizes  `json:"padding"`
	Border   EdgeSizes  `json:"border"`
	Margin   EdgeSizes  `json:"margin"`
	Children []Snapshot `json:"children,omitempty"`
}

// Snapshot returns the serializable view of the subtree rooted at b.
func (b *LayoutBox) Snapshot() Snapshot {
	s := Snapshot{
		Type:    b.BoxType.String(),
		Content: b.Dimensions.Content,
		Padding: b.Dimensions.Padding,
		Border:  b.Dimensions.Border,
		Margin:  b.Dimensions.Margin,
	}
	if b.StyledNode != nil {
		if n := b.StyledNode.Node; n.IsElement() {
			s.Tag = n.TagName()
		} else {
			s.Text = n.Text()
		}
	}
	for _, c := range b.Children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}
