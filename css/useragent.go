package css

import "sync"

// userAgentCSS is the optional default stylesheet. It only touches display,
// so geometry stays entirely under author control.
const userAgentCSS = `
/* Block elements */
html, body, div, p, article, aside, footer, header, nav, section, main,
h1, h2, h3, h4, h5, h6, ul, ol, li, blockquote, pre, address, figure {
	display: block;
}

/* Never rendered */
head, style, script, title, meta, link {
	display: none;
}
`

var (
	userAgentOnce  sync.Once
	userAgentSheet *Stylesheet
)

// UserAgentStylesheet returns the parsed user agent stylesheet. The result
// is shared and must not be modified.
func UserAgentStylesheet() *Stylesheet {
	userAgentOnce.Do(func() {
		ss, err := Parse(userAgentCSS)
		if err != nil {
			panic("css: invalid user agent stylesheet: " + err.Error())
		}
		userAgentSheet = ss
	})
	return userAgentSheet
}
