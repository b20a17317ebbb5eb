package css

import (
	"sort"

	"github.com/chrisuehlinger/boxrender/dom"
)

// PropertyMap maps property names to their resolved values.
type PropertyMap map[string]Value

// InheritedProperties are copied from the parent before the cascade runs.
var InheritedProperties = []string{"color", "font-size", "font-weight", "line-height"}

// DefaultValues returns the property map the document root inherits from.
func DefaultValues() PropertyMap {
	return PropertyMap{
		"color":       NewColor(Color{R: 0, G: 0, B: 0, A: 255}),
		"font-size":   NewLength(16),
		"font-weight": NewKeyword("normal"),
		"line-height": NewKeyword("normal"),
	}
}

// CascadeOrigin represents the origin of a stylesheet in the cascade.
type CascadeOrigin int

const (
	OriginUserAgent CascadeOrigin = iota
	OriginAuthor
)

// MatchedRule is a rule that matched an element, with the selector that
// decided the match.
type MatchedRule struct {
	Rule        *Rule
	Selector    *Selector
	Origin      CascadeOrigin
	Specificity Specificity
}

// StyleResolver resolves element styles from a user agent stylesheet and any
// number of author stylesheets. Author stylesheets cascade as if they were
// concatenated in the order they were added.
//
// By default every matched declaration applies in cascade order and the last
// one wins. Inline style attributes and the !important pass are opt-in.
type StyleResolver struct {
	userAgentSheet *Stylesheet
	authorSheets   []*Stylesheet
	inlineStyles   bool
	importantPass  bool
}

// NewStyleResolver creates a resolver over the given author stylesheets.
func NewStyleResolver(authorSheets ...*Stylesheet) *StyleResolver {
	return &StyleResolver{authorSheets: authorSheets}
}

// SetUserAgentStylesheet sets the user agent stylesheet.
func (sr *StyleResolver) SetUserAgentStylesheet(ss *Stylesheet) {
	sr.userAgentSheet = ss
}

// SetInlineStyles enables the style attribute. Its declarations apply after
// all matched rules.
func (sr *StyleResolver) SetInlineStyles(on bool) {
	sr.inlineStyles = on
}

// SetImportantDeclarations enables the !important pass: flagged declarations
// apply after all normal ones. When off the flag is ignored.
func (sr *StyleResolver) SetImportantDeclarations(on bool) {
	sr.importantPass = on
}

// AddAuthorStylesheet adds an author stylesheet.
func (sr *StyleResolver) AddAuthorStylesheet(ss *Stylesheet) {
	sr.authorSheets = append(sr.authorSheets, ss)
}

// collectMatchingRules collects all rules matching an element, in source order.
func (sr *StyleResolver) collectMatchingRules(n *dom.Node) []MatchedRule {
	var matched []MatchedRule
	collect := func(ss *Stylesheet, origin CascadeOrigin) {
		if ss == nil {
			return
		}
		for i := range ss.Rules {
			rule := &ss.Rules[i]
			if sel := matchRule(rule, n); sel != nil {
				matched = append(matched, MatchedRule{
					Rule:        rule,
					Selector:    sel,
					Origin:      origin,
					Specificity: sel.Specificity(),
				})
			}
		}
	}

	collect(sr.userAgentSheet, OriginUserAgent)
	for _, ss := range sr.authorSheets {
		collect(ss, OriginAuthor)
	}
	return matched
}

// matchRule returns the first selector of the rule that matches the
// element, or nil.
func matchRule(rule *Rule, n *dom.Node) *Selector {
	for i := range rule.Selectors {
		if rule.Selectors[i].Matches(n) {
			return &rule.Selectors[i]
		}
	}
	return nil
}

// sortByPrecedence orders matched rules lowest precedence first: by origin,
// then specificity. The sort is stable so source order breaks ties.
func sortByPrecedence(rules []MatchedRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		return a.Specificity.Less(b.Specificity)
	})
}

// ResolveStyles computes the property map of a node given its parent's map.
// Text nodes get an empty map.
func (sr *StyleResolver) ResolveStyles(n *dom.Node, parent PropertyMap) PropertyMap {
	values := make(PropertyMap)
	if !n.IsElement() {
		return values
	}

	for _, name := range InheritedProperties {
		if v, ok := parent[name]; ok {
			values[name] = v
		}
	}

	rules := sr.collectMatchingRules(n)
	sortByPrecedence(rules)

	var important []Declaration
	apply := func(decl Declaration) {
		if decl.Important && sr.importantPass {
			important = append(important, decl)
			return
		}
		applyDeclaration(values, parent, decl)
	}

	for _, m := range rules {
		for _, decl := range m.Rule.Declarations {
			apply(decl)
		}
	}

	if styleAttr, ok := n.GetAttribute("style"); ok && sr.inlineStyles {
		// Invalid inline declarations are dropped, as in a stylesheet.
		decls, _ := ParseDeclarations(styleAttr)
		for _, decl := range decls {
			apply(decl)
		}
	}

	for _, decl := range important {
		applyDeclaration(values, parent, decl)
	}
	return values
}

// applyDeclaration stores decl in values. The inherit keyword copies the
// parent's value of the same property, or drops the declaration if the
// parent has none.
func applyDeclaration(values, parent PropertyMap, decl Declaration) {
	if decl.Value.IsKeyword("inherit") {
		if v, ok := parent[decl.Name]; ok {
			values[decl.Name] = v
		}
		return
	}
	values[decl.Name] = decl.Value
}
