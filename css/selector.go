package css

import (
	"strings"

	"github.com/chrisuehlinger/boxrender/dom"
)

// Selector is a simple selector: an optional tag name, an optional id and a
// set of class names. Every constraint that is present must hold for the
// selector to match. The zero Selector is the universal selector.
type Selector struct {
	TagName string
	ID      string
	Classes []string
}

// Specificity represents CSS selector specificity.
// Per https://www.w3.org/TR/CSS2/cascade.html#specificity
type Specificity struct {
	A int // ID selectors
	B int // Class selectors
	C int // Type selectors
}

// Compare compares two specificities. Returns -1, 0, or 1.
func (s Specificity) Compare(other Specificity) int {
	if s.A != other.A {
		if s.A > other.A {
			return 1
		}
		return -1
	}
	if s.B != other.B {
		if s.B > other.B {
			return 1
		}
		return -1
	}
	if s.C != other.C {
		if s.C > other.C {
			return 1
		}
		return -1
	}
	return 0
}

// Less returns true if this specificity is less than the other.
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

// Specificity returns (id count, class count, tag count).
func (s Selector) Specificity() Specificity {
	var spec Specificity
	if s.ID != "" {
		spec.A = 1
	}
	spec.B = len(s.Classes)
	if s.TagName != "" {
		spec.C = 1
	}
	return spec
}

// Matches reports whether the selector matches the element. Text nodes
// never match.
func (s Selector) Matches(n *dom.Node) bool {
	if !n.IsElement() {
		return false
	}
	if s.TagName != "" && !strings.EqualFold(n.TagName(), s.TagName) {
		return false
	}
	if s.ID != "" {
		if id, ok := n.ID(); !ok || id != s.ID {
			return false
		}
	}
	if len(s.Classes) > 0 {
		classes := n.Classes()
		for _, c := range s.Classes {
			if _, ok := classes[c]; !ok {
				return false
			}
		}
	}
	return true
}

func (s Selector) String() string {
	var sb strings.Builder
	if s.TagName == "" && s.ID == "" && len(s.Classes) == 0 {
		return "*"
	}
	sb.WriteString(s.TagName)
	if s.ID != "" {
		sb.WriteString("#")
		sb.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteString(".")
		sb.WriteString(c)
	}
	return sb.String()
}
