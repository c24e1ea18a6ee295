package pipeline

import (
	"regexp"
	"strings"
)

// MaxHeadingLevel is the deepest heading level listed in the table of contents.
const MaxHeadingLevel = 3

var (
	// ATX headings of levels 1-3. Whitespace after the hashes must stay on
	// the same line so a bare "#" line never captures the next line.
	headingPattern = regexp.MustCompile(`(?m)^(#{1,3})[ \t]+(.+)$`)

	// Runs of characters outside [A-Za-z0-9_].
	nonWordRun = regexp.MustCompile(`[^\w]+`)
)

// Heading is a heading found in Markdown source.
type Heading struct {
	Level int    // 1-3
	Text  string // heading text as written
	ID    string // anchor derived from Text
}

// ExtractHeadings scans Markdown source for level 1-3 ATX headings in document order.
// Only spaces or tabs may separate the hashes from the text, so "#\nText" is
// not a heading even though a plain \s+ would match across the newline.
// Duplicate IDs are kept as-is.
func ExtractHeadings(content string) []Heading {
	matches := headingPattern.FindAllStringSubmatch(normalizeLineEndings(content), -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		text := strings.TrimSpace(m[2])
		headings = append(headings, Heading{
			Level: len(m[1]),
			Text:  text,
			ID:    Slugify(text),
		})
	}
	return headings
}

// Slugify lowercases text and collapses every run of non-word characters into "-".
// Leading and trailing dashes are kept: "Hello, World!" becomes "hello-world-".
func Slugify(text string) string {
	return nonWordRun.ReplaceAllString(strings.ToLower(text), "-")
}
