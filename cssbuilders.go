package md2pdf

import (
	"strings"

	"github.com/eckman-tech/md2pdf-server/internal/assets"
)

// pageBreakSectionsCSS forces a page break before every h1 and h2 except the
// first of each.
const pageBreakSectionsCSS = `
/* Page breaks on H1 and H2 headings */
h1, h2 {
  break-before: page;
  page-break-before: always;
}

h1:first-of-type, h2:first-of-type {
  break-before: auto;
  page-break-before: auto;
}
`

// BuildThemeCSS returns the embedded document theme, with section page
// breaks appended when pageBreakSections is set.
func BuildThemeCSS(pageBreakSections bool) (string, error) {
	theme, err := assets.Embedded().Load(assets.Style, assets.ThemeStyleName)
	if err != nil {
		return "", err
	}
	return buildThemeCSS(theme, pageBreakSections), nil
}

func buildThemeCSS(theme string, pageBreakSections bool) string {
	if !pageBreakSections {
		return theme
	}
	var buf strings.Builder
	buf.Grow(len(theme) + len(pageBreakSectionsCSS))
	buf.WriteString(theme)
	buf.WriteString(pageBreakSectionsCSS)
	return buf.String()
}
