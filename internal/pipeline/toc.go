package pipeline

import "strings"

const (
	tocHeading   = "# Table of Contents\n\n"
	tocSeparator = "\n---\n\n"
	tocIndent    = "  "
)

// BuildTOC returns a Markdown table of contents for the headings in content,
// or "" when there are none. Each entry links to the heading's anchor and is
// indented two spaces per level below 1.
func BuildTOC(content string) string {
	headings := ExtractHeadings(content)
	if len(headings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(tocHeading)
	for _, h := range headings {
		b.WriteString(strings.Repeat(tocIndent, h.Level-1))
		b.WriteString("- [")
		b.WriteString(h.Text)
		b.WriteString("](#")
		b.WriteString(h.ID)
		b.WriteString(")\n")
	}
	b.WriteString(tocSeparator)
	return b.String()
}
