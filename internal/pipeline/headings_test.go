package pipeline

// Notes:
// - Slug expectations are the literal results of lowercase + collapsing
//   [^A-Za-z0-9_] runs into "-"; leading and trailing dashes are expected.
// - Non-ASCII letters are non-word characters for the slug, so "Café" ends
//   with a dash. This matches the anchors Goldmark emits via slugIDs.

import (
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSlugify - Anchor generation
// ---------------------------------------------------------------------------

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Introduction", "introduction"},
		{"Getting Started", "getting-started"},
		{"Hello, World!", "hello-world-"},
		{"snake_case stays", "snake_case-stays"},
		{"  padded  ", "-padded-"},
		{"C++ & Go", "c-go"},
		{"Café", "caf-"},
		{"v1.2.3", "v1-2-3"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExtractHeadings - Levels, order and filtering
// ---------------------------------------------------------------------------

func TestExtractHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []Heading
	}{
		{
			name:    "no headings",
			content: "plain text\n\nmore text\n",
			want:    nil,
		},
		{
			name:    "levels one to three in order",
			content: "# A\ntext\n## B\n### C\n",
			want: []Heading{
				{Level: 1, Text: "A", ID: "a"},
				{Level: 2, Text: "B", ID: "b"},
				{Level: 3, Text: "C", ID: "c"},
			},
		},
		{
			name:    "level four and deeper ignored",
			content: "#### Deep\n##### Deeper\n# Top\n",
			want:    []Heading{{Level: 1, Text: "Top", ID: "top"}},
		},
		{
			name:    "hashes without space are not headings",
			content: "#hashtag\n##nope\n",
			want:    nil,
		},
		{
			name:    "indented heading ignored",
			content: "  # Indented\n",
			want:    nil,
		},
		{
			name:    "trailing whitespace trimmed",
			content: "## Spaced   \n",
			want:    []Heading{{Level: 2, Text: "Spaced", ID: "spaced"}},
		},
		{
			name:    "duplicates keep identical ids",
			content: "# Notes\n# Notes\n",
			want: []Heading{
				{Level: 1, Text: "Notes", ID: "notes"},
				{Level: 1, Text: "Notes", ID: "notes"},
			},
		},
		{
			name:    "crlf line endings",
			content: "# One\r\n## Two\r\n",
			want: []Heading{
				{Level: 1, Text: "One", ID: "one"},
				{Level: 2, Text: "Two", ID: "two"},
			},
		},
		{
			name:    "bare hash line does not capture next line",
			content: "#\nParagraph\n",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractHeadings(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractHeadings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractHeadings_Large(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString("## Section\nbody\n")
	}

	if got := len(ExtractHeadings(b.String())); got != 1000 {
		t.Errorf("len(ExtractHeadings) = %d, want 1000", got)
	}
}
