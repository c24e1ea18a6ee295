package pipeline

import (
	"fmt"
	"html"
	"strings"

	"github.com/eckman-tech/md2pdf-server/internal/imageutil"
)

// DefaultOrganization is credited on title pages when none is configured.
const DefaultOrganization = "Eckman Tech LLC"

// PageBreakDiv forces the following content onto a new page.
const PageBreakDiv = `<div style="page-break-after: always;"></div>`

// TitlePage holds the values shown on a generated title page.
type TitlePage struct {
	Title        string // required
	LogoPath     string // optional image file, embedded as a data URI
	Organization string // "Prepared by" credit, DefaultOrganization when empty
	Date         string // already formatted
}

// BuildTitlePage renders a centered Markdown/HTML title block followed by a page break.
// The title stays Markdown so it renders as a level-1 heading. Returns an
// error wrapping imageutil.ErrImageRead when the logo cannot be read.
func BuildTitlePage(tp TitlePage) (string, error) {
	org := tp.Organization
	if org == "" {
		org = DefaultOrganization
	}

	var b strings.Builder
	b.WriteString("<div style=\"text-align: center; margin-top: 250px;\">\n\n")

	if tp.LogoPath != "" {
		uri, err := imageutil.DataURI(tp.LogoPath)
		if err != nil {
			return "", fmt.Errorf("title page logo: %w", err)
		}
		fmt.Fprintf(&b, "<img src=\"%s\" style=\"max-width: 300px; max-height: 150px; margin-bottom: 50px;\" />\n\n", uri)
	}

	fmt.Fprintf(&b, "# %s\n\n", tp.Title)
	fmt.Fprintf(&b, "<p style=\"font-size: 1.2em; margin-top: 30px;\">Prepared by <strong>%s</strong></p>\n\n", html.EscapeString(org))
	fmt.Fprintf(&b, "<p style=\"font-size: 1em; color: #666;\">%s</p>\n\n", html.EscapeString(tp.Date))
	b.WriteString("</div>\n\n")
	b.WriteString(PageBreakDiv + "\n\n")

	return b.String(), nil
}
