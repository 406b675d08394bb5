package cleaner

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Cleaner turns scraped values into plain text that is safe to place in a
// Markdown table cell
type Cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner creates a cleaner that strips ALL HTML
func NewCleaner() *Cleaner {
	return &Cleaner{policy: bluemonday.StrictPolicy()}
}

// CleanToText removes all HTML and collapses whitespace
func (c *Cleaner) CleanToText(s string) string {
	text := html.UnescapeString(c.policy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

var cellReplacer = strings.NewReplacer("|", "/", "[", "(", "]", ")")

// Cell cleans s for use as a table cell. Pipes would split the cell and
// brackets would break the link syntax around the offer.
func (c *Cleaner) Cell(s string) string {
	return cellReplacer.Replace(c.CleanToText(s))
}

// URL cleans a link target; parentheses and spaces are percent-encoded
func (c *Cleaner) URL(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29").Replace(s)
}
