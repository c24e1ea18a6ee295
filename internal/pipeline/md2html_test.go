package pipeline

// Notes:
// - Assertions check for fragments of Goldmark output, not whole documents,
//   so minor renderer formatting changes do not break tests.
// - Heading ID tests pin the contract with BuildTOC: every TOC link target
//   must exist as an id in the rendered HTML.

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGoldmarkConverter_ToHTML - Markdown features
// ---------------------------------------------------------------------------

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()

	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{
			name:         "wraps in html document",
			input:        "hello",
			wantContains: []string{"<!DOCTYPE html>", "<meta charset=\"utf-8\">", "<p>hello</p>"},
		},
		{
			name:         "hard wraps",
			input:        "line one\nline two",
			wantContains: []string{"line one<br />"},
		},
		{
			name:         "gfm table",
			input:        "| a | b |\n|---|---|\n| 1 | 2 |\n",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "task list",
			input:        "- [x] done\n- [ ] todo\n",
			wantContains: []string{`type="checkbox"`, "checked"},
		},
		{
			name:         "strikethrough",
			input:        "~~gone~~",
			wantContains: []string{"<del>gone</del>"},
		},
		{
			name:         "raw html kept",
			input:        "<div style=\"page-break-after: always;\"></div>\n\nafter",
			wantContains: []string{`<div style="page-break-after: always;"></div>`},
		},
		{
			name:         "highlighted code uses classes",
			input:        "```go\nfunc main() {}\n```\n",
			wantContains: []string{`class="chroma"`},
		},
		{
			name:         "footnote",
			input:        "text[^1]\n\n[^1]: note\n",
			wantContains: []string{"footnote"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_HeadingIDsMatchTOC(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()
	src := "# Getting Started\n## Hello, World!\n### v1.2.3\n# Getting Started\n"

	got, err := conv.ToHTML(context.Background(), BuildTOC(src)+src)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	for _, h := range ExtractHeadings(src) {
		if !strings.Contains(got, `id="`+h.ID+`"`) {
			t.Errorf("rendered HTML has no id %q for heading %q", h.ID, h.Text)
		}
		if !strings.Contains(got, `href="#`+h.ID+`"`) {
			t.Errorf("rendered HTML has no link to #%s", h.ID)
		}
	}

	// Duplicate headings share an id, no "-1" suffix is generated.
	if strings.Contains(got, `id="getting-started-1"`) {
		t.Error("duplicate heading ids should not be suffixed")
	}
}

func TestGoldmarkConverter_TitlePageHeading(t *testing.T) {
	t.Parallel()

	page, err := BuildTitlePage(TitlePage{Title: "Quarterly Report", Date: "today"})
	if err != nil {
		t.Fatalf("BuildTitlePage() error = %v", err)
	}

	got, err := NewGoldmarkConverter().ToHTML(context.Background(), page+"body\n")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	if !strings.Contains(got, `<h1 id="quarterly-report">Quarterly Report</h1>`) {
		t.Errorf("title should render as an h1 inside the centered block:\n%s", got)
	}
	if !strings.Contains(got, "Prepared by <strong>Eckman Tech LLC</strong>") {
		t.Error("attribution paragraph missing")
	}
}

func TestGoldmarkConverter_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# Title")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
