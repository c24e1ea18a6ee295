package md2pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eckman-tech/md2pdf-server/internal/assets"
	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
	"github.com/eckman-tech/md2pdf-server/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.SourcePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pdfConverter                  = (*rodRenderer)(nil)
	_ documentPage                  = rodPage{}
)

// converterConfig holds options applied by NewConverter.
type converterConfig struct {
	timeout   time.Duration
	assetPath string
	branding  Branding
	browser   BrowserOptions
}

// Option configures a Converter.
type Option func(*Converter)

// WithTimeout bounds each conversion's rendering stage.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.cfg.timeout = d
		}
	}
}

// WithAssetPath overrides the embedded theme and header/footer templates
// with files from dir. Missing files fall back to the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithBranding sets the attribution printed on title pages and footers.
// Empty fields keep their defaults.
func WithBranding(b Branding) Option {
	return func(c *Converter) {
		if b.Organization != "" {
			c.cfg.branding.Organization = b.Organization
		}
		if b.OrganizationURL != "" {
			c.cfg.branding.OrganizationURL = b.OrganizationURL
		}
		if b.DateFormat != "" {
			c.cfg.branding.DateFormat = b.DateFormat
		}
	}
}

// WithBrowser configures the headless browser launch.
func WithBrowser(opts BrowserOptions) Option {
	return func(c *Converter) {
		c.cfg.browser = opts
	}
}

// Converter runs the markdown-to-PDF pipeline. A Converter owns one browser
// and must not be shared between concurrent conversions; use ConverterPool.
type Converter struct {
	cfg           converterConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	headerFooter  *pipeline.HeaderFooterBuilder
	theme         string
	pdfConverter  pdfConverter
	now           func() time.Time
}

// NewConverter creates a Converter. The browser is launched on first use.
// Returns an error if assets cannot be loaded or templates fail to parse.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:  defaultTimeout,
			branding: DefaultBranding(),
		},
		preprocessor:  &pipeline.SourcePreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	bundle, err := assets.LoadBundle(c.cfg.assetPath)
	if err != nil {
		if c.cfg.assetPath != "" {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	c.theme = bundle.Theme

	c.headerFooter, err = pipeline.NewHeaderFooterBuilder(bundle.Header, bundle.Footer)
	if err != nil {
		return nil, fmt.Errorf("initializing header/footer: %w", err)
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodRenderer(c.cfg.browser, c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the HTML and PDF.
// The source markdown is never modified; title page and TOC are prepended
// in memory. Recovers from internal panics.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	date, err := c.cfg.branding.resolveDate(input.Date, c.now())
	if err != nil {
		return nil, err
	}

	md, err = c.compose(md, input, date)
	if err != nil {
		return nil, err
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	if input.SourceDir != "" {
		htmlContent, err = pipeline.ResolveLocalReferences(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("resolving local references: %w", err)
		}
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, buildThemeCSS(c.theme, input.PageBreakSections))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ConvertResult{HTML: []byte(htmlContent)}
	if input.HTMLOnly {
		return res, nil
	}

	rc, err := c.buildRenderConfig(input, date)
	if err != nil {
		return nil, err
	}

	renderCtx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	pdf, err := c.pdfConverter.ToPDF(renderCtx, htmlContent, rc)
	if err != nil {
		if errors.Is(renderCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s", ErrRenderTimeout, c.cfg.timeout)
		}
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	if rc.Dest != "" {
		if err := fileutil.WriteAtomic(rc.Dest, pdf, 0o644); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	res.PDF = pdf
	return res, nil
}

// compose prepends the title page and TOC to the markdown. By default the
// title page is added first and the TOC is then built from the combined
// text and prepended, so the TOC lists the title and precedes it.
func (c *Converter) compose(md string, input Input, date string) (string, error) {
	var titlePage string
	if input.TitlePage && input.Title != "" {
		var err error
		titlePage, err = pipeline.BuildTitlePage(pipeline.TitlePage{
			Title:        input.Title,
			LogoPath:     input.TitleLogoPath,
			Organization: c.cfg.branding.Organization,
			Date:         date,
		})
		if err != nil {
			return "", err
		}
	}

	if !input.TOC {
		return titlePage + md, nil
	}
	if input.TOCAfterTitlePage {
		return titlePage + pipeline.BuildTOC(md) + md, nil
	}
	md = titlePage + md
	return pipeline.BuildTOC(md) + md, nil
}

// buildRenderConfig derives page margins and header/footer templates.
// The header is shown when ShowHeaderFooter is set or a header logo is
// given; the footer content only with ShowHeaderFooter.
func (c *Converter) buildRenderConfig(input Input, date string) (RenderConfig, error) {
	rc := RenderConfig{
		Dest:            input.Dest,
		Format:          PageFormatLetter,
		Margins:         Margins{Top: defaultMarginPx, Right: defaultMarginPx, Bottom: defaultMarginPx, Left: defaultMarginPx},
		PrintBackground: true,
	}

	showHeader := input.ShowHeaderFooter || input.HeaderLogoPath != ""
	if !showHeader {
		return rc, nil
	}

	rc.Margins.Top = headerMarginPx
	rc.DisplayHeaderFooter = true

	header, err := c.headerFooter.BuildHeader(input.HeaderLogoPath, input.CustomerName)
	if err != nil {
		return RenderConfig{}, err
	}
	rc.HeaderTemplate = header
	rc.FooterTemplate = pipeline.EmptyTemplate

	if input.ShowHeaderFooter {
		rc.Margins.Bottom = footerMarginPx
		footer, err := c.headerFooter.BuildFooter(pipeline.FooterData{
			Date:       date,
			Company:    c.cfg.branding.Organization,
			CompanyURL: c.cfg.branding.OrganizationURL,
		})
		if err != nil {
			return RenderConfig{}, err
		}
		rc.FooterTemplate = footer
	}

	return rc, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}
