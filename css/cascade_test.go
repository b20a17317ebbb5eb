package css

import (
	"testing"

	"github.com/chrisuehlinger/boxrender/dom"
)

func resolve(t *testing.T, n *dom.Node, sources ...string) PropertyMap {
	t.Helper()
	var sheets []*Stylesheet
	for _, src := range sources {
		sheets = append(sheets, mustParse(t, src))
	}
	return NewStyleResolver(sheets...).ResolveStyles(n, DefaultValues())
}

func TestCascadeSpecificityWins(t *testing.T) {
	el := dom.NewElement("p", dom.AttrMap{"id": "x", "class": "c"}, nil)

	values := resolve(t, el, `
#x { width: 30px; }
.c { width: 20px; }
p { width: 10px; }
`)
	if got := values["width"].ToPx(); got != 30 {
		t.Errorf("width = %v, want 30", got)
	}
}

func TestCascadeLaterRuleWinsOnEqualSpecificity(t *testing.T) {
	el := dom.NewElement("p", dom.AttrMap{"class": "a b"}, nil)

	values := resolve(t, el, ".a { width: 1px; } .b { width: 2px; }")
	if got := values["width"].ToPx(); got != 2 {
		t.Errorf("width = %v, want 2", got)
	}

	// Later stylesheets behave as if appended to earlier ones.
	values = resolve(t, el, ".b { width: 2px; }", ".a { width: 1px; }")
	if got := values["width"].ToPx(); got != 1 {
		t.Errorf("width across stylesheets = %v, want 1", got)
	}
}

func TestCascadeLaterDeclarationWinsWithinRule(t *testing.T) {
	el := dom.NewElement("p", nil, nil)

	values := resolve(t, el, "p { width: 1px; width: 2px; }")
	if got := values["width"].ToPx(); got != 2 {
		t.Errorf("width = %v, want 2", got)
	}
}

func TestCascadeRuleUsesFirstMatchingSelector(t *testing.T) {
	// The rule's selectors are ordered #x, .c. The element only matches .c, so
	// the rule carries class specificity and loses to the later .c.d rule.
	el := dom.NewElement("p", dom.AttrMap{"class": "c d"}, nil)

	values := resolve(t, el, ".c.d { width: 5px; } #x, .c { width: 9px; }")
	if got := values["width"].ToPx(); got != 5 {
		t.Errorf("width = %v, want 5", got)
	}
}

func TestCascadeInheritance(t *testing.T) {
	parent := PropertyMap{
		"color":       NewColor(Color{R: 255, A: 255}),
		"font-size":   NewLength(20),
		"width":       NewLength(100),
		"display":     NewKeyword("block"),
		"line-height": NewKeyword("normal"),
	}
	el := dom.NewElement("span", nil, nil)

	values := NewStyleResolver().ResolveStyles(el, parent)
	if got := values["color"]; got != parent["color"] {
		t.Errorf("color = %v, want inherited %v", got, parent["color"])
	}
	if got := values["font-size"].ToPx(); got != 20 {
		t.Errorf("font-size = %v, want 20", got)
	}
	if _, ok := values["width"]; ok {
		t.Error("width must not be inherited")
	}
	if _, ok := values["display"]; ok {
		t.Error("display must not be inherited")
	}
	if _, ok := values["font-weight"]; ok {
		t.Error("font-weight should be absent when the parent has none")
	}
}

func TestCascadeDefaultValues(t *testing.T) {
	values := resolve(t, dom.NewElement("html", nil, nil))

	expected := DefaultValues()
	if len(values) != len(expected) {
		t.Fatalf("Expected %d properties, got %v", len(expected), values)
	}
	for name, want := range expected {
		if values[name] != want {
			t.Errorf("%s = %v, want %v", name, values[name], want)
		}
	}
	if got := values["color"].String(); got != "#000000" {
		t.Errorf("color = %q, want #000000", got)
	}
}

func TestCascadeInheritKeyword(t *testing.T) {
	parent := PropertyMap{"width": NewLength(42)}
	el := dom.NewElement("div", nil, nil)

	resolver := NewStyleResolver(mustParse(t, "div { width: inherit; height: inherit; }"))
	values := resolver.ResolveStyles(el, parent)

	if got := values["width"].ToPx(); got != 42 {
		t.Errorf("width = %v, want 42", got)
	}
	if _, ok := values["height"]; ok {
		t.Error("inherit without a parent value should drop the declaration")
	}
}

func TestCascadeTextNodes(t *testing.T) {
	values := resolve(t, dom.NewText("hi"), "* { display: block; }")
	if len(values) != 0 {
		t.Errorf("Text node got %v, want empty map", values)
	}
}

func TestCascadeUserAgentOrigin(t *testing.T) {
	el := dom.NewElement("div", dom.AttrMap{}, nil)

	resolver := NewStyleResolver(mustParse(t, "* { display: inline; }"))
	resolver.SetUserAgentStylesheet(mustParse(t, "#never, div { display: block; width: 5px; }"))

	values := resolver.ResolveStyles(el, nil)
	if !values["display"].IsKeyword("inline") {
		t.Errorf("display = %v, author universal rule should beat user agent tag rule", values["display"])
	}
	if got := values["width"].ToPx(); got != 5 {
		t.Errorf("width = %v, want user agent 5", got)
	}
}

func resolveWith(t *testing.T, n *dom.Node, configure func(*StyleResolver), sources ...string) PropertyMap {
	t.Helper()
	resolver := NewStyleResolver()
	for _, src := range sources {
		resolver.AddAuthorStylesheet(mustParse(t, src))
	}
	configure(resolver)
	return resolver.ResolveStyles(n, DefaultValues())
}

func TestCascadeIgnoresStyleAttributeByDefault(t *testing.T) {
	el := dom.NewElement("div", dom.AttrMap{"style": "display: block; width: 10px"}, nil)

	values := resolve(t, el)
	if _, ok := values["display"]; ok {
		t.Errorf("display = %v, style attribute should be ignored", values["display"])
	}
	if _, ok := values["width"]; ok {
		t.Errorf("width = %v, style attribute should be ignored", values["width"])
	}

	sn := Style(el)
	if sn.Display() != DisplayInline {
		t.Errorf("Display() = %v, expected inline", sn.Display())
	}
}

func TestCascadeInlineStyle(t *testing.T) {
	el := dom.NewElement("div", dom.AttrMap{"id": "x", "style": "width: 7px; height: 10em; color: blue"}, nil)

	values := resolveWith(t, el, func(sr *StyleResolver) { sr.SetInlineStyles(true) },
		"#x { width: 1px; height: 3px; }")
	if got := values["width"].ToPx(); got != 7 {
		t.Errorf("width = %v, want inline 7", got)
	}
	if got := values["height"].ToPx(); got != 3 {
		t.Errorf("height = %v, invalid inline declaration should be dropped", got)
	}
	if got := values["color"].String(); got != "#0000ff" {
		t.Errorf("color = %v, want #0000ff", got)
	}
}

func TestCascadeImportantIgnoredByDefault(t *testing.T) {
	el := dom.NewElement("div", dom.AttrMap{"id": "x"}, nil)

	values := resolve(t, el, "#x { color: red !important; } div#x { color: blue; }")
	if got := values["color"].String(); got != "#0000ff" {
		t.Errorf("color = %v, the more specific rule should win", got)
	}
}

func TestCascadeImportant(t *testing.T) {
	el := dom.NewElement("div", dom.AttrMap{"id": "x", "style": "width: 7px; height: 8px !important"}, nil)

	values := resolveWith(t, el, func(sr *StyleResolver) {
		sr.SetInlineStyles(true)
		sr.SetImportantDeclarations(true)
	},
		"div { width: 1px !important; height: 2px !important; }",
		"#x { width: 3px; }",
	)
	if got := values["width"].ToPx(); got != 1 {
		t.Errorf("width = %v, important rule should beat id and inline", got)
	}
	if got := values["height"].ToPx(); got != 8 {
		t.Errorf("height = %v, important inline should beat important rule", got)
	}

	values = resolveWith(t, el, func(sr *StyleResolver) { sr.SetImportantDeclarations(true) },
		"#x { color: red !important; } div#x { color: blue; }")
	if got := values["color"].String(); got != "#ff0000" {
		t.Errorf("color = %v, important declaration should win", got)
	}
}

func TestSortByPrecedence(t *testing.T) {
	rules := []MatchedRule{
		{Origin: OriginAuthor, Specificity: Specificity{0, 1, 0}},
		{Origin: OriginUserAgent, Specificity: Specificity{1, 0, 0}},
		{Origin: OriginAuthor, Specificity: Specificity{0, 0, 1}},
		{Origin: OriginAuthor, Specificity: Specificity{0, 1, 0}, Rule: &Rule{}},
	}
	sortByPrecedence(rules)

	if rules[0].Origin != OriginUserAgent {
		t.Errorf("User agent rule should sort first: %+v", rules[0])
	}
	if rules[1].Specificity != (Specificity{0, 0, 1}) {
		t.Errorf("Lowest author specificity should follow: %+v", rules[1])
	}
	if rules[2].Rule != nil || rules[3].Rule == nil {
		t.Error("Equal specificity must keep source order")
	}
}
