// Package markdown repairs the block structure of backend answers so that a
// generic markdown renderer separates headings and list items correctly.
package markdown

import "regexp"

var (
	// A heading directly followed by a line that is neither a heading nor a list item.
	headingRe = regexp.MustCompile(`(?m)^(#+ .+)\n([^#\n-])`)
	// Two consecutive single-dash list items.
	listItemRe = regexp.MustCompile(`(?m)^(- .*\n)(- )`)
)

// Normalize inserts a blank line after headings that run straight into body
// text and indents the second of two adjacent dash list items. No other repair
// is attempted.
func Normalize(text string) string {
	text = SeparateHeadings(text)
	return IndentListItems(text)
}

// SeparateHeadings inserts a blank line between a heading and the body line
// that immediately follows it.
func SeparateHeadings(text string) string {
	return headingRe.ReplaceAllString(text, "$1\n\n$2")
}

// IndentListItems gives the second of two adjacent dash list items a
// continuation indent. Matches do not overlap, so in a run of items every
// second one is indented.
func IndentListItems(text string) string {
	return listItemRe.ReplaceAllString(text, "$1  $2")
}
