package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/eckman-tech/md2pdf-server/internal/imageutil"
)

// EmptyTemplate is passed to Chrome to suppress its default header or footer.
const EmptyTemplate = "<div></div>"

// Sentinel errors for header/footer rendering.
var (
	ErrHeaderRender = errors.New("header template rendering failed")
	ErrFooterRender = errors.New("footer template rendering failed")
)

// HeaderData fills the page header template.
type HeaderData struct {
	LogoURI      template.URL // data URI, trusted because it is built from file bytes
	CustomerName string
}

// FooterData fills the page footer template.
type FooterData struct {
	Date       string
	Company    string
	CompanyURL string
}

// HeaderFooterBuilder renders Chrome print header and footer templates.
// Chrome fills the pageNumber and totalPages spans at print time.
type HeaderFooterBuilder struct {
	header *template.Template
	footer *template.Template
}

// NewHeaderFooterBuilder parses the header and footer template sources.
func NewHeaderFooterBuilder(headerSrc, footerSrc string) (*HeaderFooterBuilder, error) {
	header, err := template.New("header").Parse(headerSrc)
	if err != nil {
		return nil, fmt.Errorf("parsing header template: %w", err)
	}
	footer, err := template.New("footer").Parse(footerSrc)
	if err != nil {
		return nil, fmt.Errorf("parsing footer template: %w", err)
	}
	return &HeaderFooterBuilder{header: header, footer: footer}, nil
}

// BuildHeader renders the header with an optional logo on the left and an
// optional customer name on the right. Empty slots render as empty divs so
// the flex layout keeps its two columns.
func (b *HeaderFooterBuilder) BuildHeader(logoPath, customerName string) (string, error) {
	data := HeaderData{CustomerName: customerName}
	if logoPath != "" {
		uri, err := imageutil.DataURI(logoPath)
		if err != nil {
			return "", fmt.Errorf("header logo: %w", err)
		}
		data.LogoURI = template.URL(uri) // #nosec G203 -- built from local file bytes
	}

	var buf bytes.Buffer
	if err := b.header.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHeaderRender, err)
	}
	return buf.String(), nil
}

// BuildFooter renders the footer: date left, page counter center, company link right.
func (b *HeaderFooterBuilder) BuildFooter(data FooterData) (string, error) {
	var buf bytes.Buffer
	if err := b.footer.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFooterRender, err)
	}
	return buf.String(), nil
}
