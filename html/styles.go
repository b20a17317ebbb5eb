package html

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EmbeddedStylesheets returns the text of every <style> element in the
// markup, in document order.
func EmbeddedStylesheets(source string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("html: failed to parse for style extraction: %w", err)
	}

	var sheets []string
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			sheets = append(sheets, text)
		}
	})
	return sheets, nil
}
