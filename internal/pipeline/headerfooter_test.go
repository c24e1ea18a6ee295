package pipeline

// Notes:
// - Tests use the embedded templates from internal/assets so the
//   markup checked here is what Chrome receives in production.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eckman-tech/md2pdf-server/internal/assets"
	"github.com/eckman-tech/md2pdf-server/internal/imageutil"
)

func newTestHeaderFooter(t *testing.T) *HeaderFooterBuilder {
	t.Helper()

	header, err := assets.Embedded().Load(assets.Template, assets.HeaderTemplateName)
	if err != nil {
		t.Fatalf("loading header: %v", err)
	}
	footer, err := assets.Embedded().Load(assets.Template, assets.FooterTemplateName)
	if err != nil {
		t.Fatalf("loading footer: %v", err)
	}
	b, err := NewHeaderFooterBuilder(header, footer)
	if err != nil {
		t.Fatalf("NewHeaderFooterBuilder() error = %v", err)
	}
	return b
}

// ---------------------------------------------------------------------------
// TestBuildHeader - Logo and customer slots
// ---------------------------------------------------------------------------

func TestBuildHeader(t *testing.T) {
	t.Parallel()

	b := newTestHeaderFooter(t)

	logo := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(logo, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		logo         string
		customer     string
		wantContains []string
		wantExcludes []string
		wantEmptyDiv int
	}{
		{
			name:         "both empty",
			wantContains: []string{`class="pdf-header"`, ".pdf-header-logo"},
			wantExcludes: []string{"<img"},
			wantEmptyDiv: 2,
		},
		{
			name:         "customer only",
			customer:     "Globex",
			wantContains: []string{`<div class="pdf-header-customer">Globex</div>`},
			wantExcludes: []string{"<img"},
			wantEmptyDiv: 1,
		},
		{
			name:         "logo only",
			logo:         logo,
			wantContains: []string{`<img src="data:image/png;base64,YWJj" class="pdf-header-logo" />`},
			wantEmptyDiv: 1,
		},
		{
			name:         "customer name escaped",
			customer:     "<b>Evil</b>",
			wantContains: []string{"&lt;b&gt;Evil&lt;/b&gt;"},
			wantExcludes: []string{"<b>Evil</b>"},
			wantEmptyDiv: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := b.BuildHeader(tt.logo, tt.customer)
			if err != nil {
				t.Fatalf("BuildHeader() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("BuildHeader() missing %q in:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("BuildHeader() should not contain %q", exclude)
				}
			}
			if n := strings.Count(got, EmptyTemplate); n != tt.wantEmptyDiv {
				t.Errorf("empty div count = %d, want %d", n, tt.wantEmptyDiv)
			}
		})
	}
}

func TestBuildHeader_UnreadableLogo(t *testing.T) {
	t.Parallel()

	b := newTestHeaderFooter(t)

	_, err := b.BuildHeader(filepath.Join(t.TempDir(), "missing.png"), "")
	if !errors.Is(err, imageutil.ErrImageRead) {
		t.Errorf("BuildHeader() error = %v, want ErrImageRead", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuildFooter - Date, page counter and company link
// ---------------------------------------------------------------------------

func TestBuildFooter(t *testing.T) {
	t.Parallel()

	b := newTestHeaderFooter(t)

	got, err := b.BuildFooter(FooterData{
		Date:       "June 1, 2025",
		Company:    "Eckman Tech LLC",
		CompanyURL: "https://eckman-tech.com",
	})
	if err != nil {
		t.Fatalf("BuildFooter() error = %v", err)
	}

	for _, want := range []string{
		"<span>June 1, 2025</span>",
		`Page <span class="pageNumber"></span> of <span class="totalPages"></span>`,
		`<a href="https://eckman-tech.com">Eckman Tech LLC</a>`,
		"color: #666",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BuildFooter() missing %q", want)
		}
	}
}

func TestNewHeaderFooterBuilder_InvalidTemplate(t *testing.T) {
	t.Parallel()

	if _, err := NewHeaderFooterBuilder("{{.Broken", "<div></div>"); err == nil {
		t.Error("expected parse error for header")
	}
	if _, err := NewHeaderFooterBuilder("<div></div>", "{{end}}"); err == nil {
		t.Error("expected parse error for footer")
	}
}

func TestBuildFooter_ExecError(t *testing.T) {
	t.Parallel()

	b, err := NewHeaderFooterBuilder("<div></div>", "{{.Missing.Field}}")
	if err != nil {
		t.Fatalf("NewHeaderFooterBuilder() error = %v", err)
	}

	if _, err := b.BuildFooter(FooterData{}); !errors.Is(err, ErrFooterRender) {
		t.Errorf("BuildFooter() error = %v, want ErrFooterRender", err)
	}
}
