package md2pdf

import (
	"time"

	"github.com/eckman-tech/md2pdf-server/internal/dateutil"
	"github.com/eckman-tech/md2pdf-server/internal/pipeline"
)

// Input contains conversion parameters for a single document.
// Toggles default to off. An empty Markdown is valid: the document is
// whatever the title page and TOC produce, or a blank page.
type Input struct {
	Markdown string

	// Title page
	TitlePage     bool   // rendered only when Title is also set
	Title         string // document title
	TitleLogoPath string // optional logo on the title page (customer logo)

	// Table of contents
	TOC               bool
	TOCAfterTitlePage bool // title → TOC → body instead of TOC → title → body

	PageBreakSections bool // every h1/h2 except the first starts a new page

	// Page header and footer
	ShowHeaderFooter bool
	HeaderLogoPath   string // a logo alone also enables the header
	CustomerName     string // printed right of the header

	Date      string // overrides the branding date for title page and footer
	SourceDir string // resolves relative images and links; empty skips
	Dest      string // optional path the PDF is also written to
	HTMLOnly  bool   // skip PDF rendering
}

// ConvertResult contains the output of a conversion.
type ConvertResult struct {
	HTML []byte // final HTML handed to the browser
	PDF  []byte // nil when Input.HTMLOnly
}

// Branding is the fixed attribution printed on every document.
type Branding struct {
	Organization    string // "Prepared by" line and footer link text
	OrganizationURL string // footer link target
	DateFormat      string // literal date or "auto[:FORMAT]"
}

// DefaultBranding returns the stock attribution.
func DefaultBranding() Branding {
	return Branding{
		Organization:    pipeline.DefaultOrganization,
		OrganizationURL: "https://eckman-tech.com",
		DateFormat:      dateutil.AutoLong,
	}
}

// resolveDate returns the date printed on the title page and footer.
func (b Branding) resolveDate(override string, now time.Time) (string, error) {
	if override != "" {
		return override, nil
	}
	return dateutil.ResolveDate(b.DateFormat, now)
}

// BrowserOptions configures the headless browser launch.
type BrowserOptions struct {
	Bin       string // empty lets rod find or download Chromium
	NoSandbox bool   // adds --no-sandbox and --disable-setuid-sandbox
}

// Page geometry.
const (
	PageFormatLetter  = "Letter"
	paperWidthInches  = 8.5
	paperHeightInches = 11
	cssPixelsPerInch  = 96
	defaultMarginPx   = 40
	headerMarginPx    = 80
	footerMarginPx    = 60
	defaultTimeout    = 60 * time.Second
)

// Margins are per-side page margins in CSS pixels.
type Margins struct {
	Top, Right, Bottom, Left int
}

// RenderConfig describes one PDF render. Built fresh per conversion.
type RenderConfig struct {
	Dest                string // written after rendering when set
	Format              string
	Margins             Margins
	PrintBackground     bool
	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string
}

func pxToInches(px int) float64 {
	return float64(px) / cssPixelsPerInch
}
