package md2pdf

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/eckman-tech/md2pdf-server/internal/process"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, rc RenderConfig) ([]byte, error)
	Close() error
}

// documentPage is the part of a browser tab the renderer drives. The
// document is set in memory on an about:blank page, so it has no file://
// origin and cannot pull local files into the PDF.
type documentPage interface {
	SetContent(ctx context.Context, html string) error
	PrintPDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error)
	Close(ctx context.Context) error
}

// rodPage adapts *rod.Page to documentPage. The page itself is created
// without a request context; each call is bound to the ctx it is given.
type rodPage struct {
	page *rod.Page
}

func (p rodPage) SetContent(ctx context.Context, html string) error {
	page := p.page.Context(ctx)
	if err := page.SetDocumentContent(html); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (p rodPage) PrintPDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := p.page.Context(ctx).PDF(opts)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func (p rodPage) Close(ctx context.Context) error {
	return p.page.Context(ctx).Close()
}

// pageCloseTimeout bounds closing a tab after its render ended.
const pageCloseTimeout = 5 * time.Second

// rodRenderer implements pdfConverter using go-rod.
// Rod automatically downloads Chromium on first run if no binary is configured.
type rodRenderer struct {
	opts    BrowserOptions
	timeout time.Duration

	// openPage replaces the browser tab factory in tests.
	openPage func() (documentPage, error)

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(opts BrowserOptions, timeout time.Duration) *rodRenderer {
	return &rodRenderer{opts: opts, timeout: timeout}
}

// newLauncher builds the Chromium launcher for opts.
func newLauncher(opts BrowserOptions) *launcher.Launcher {
	l := launcher.New()
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true).Set(flags.Flag("disable-setuid-sandbox"))
	}
	return l
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := newLauncher(r.opts)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close releases browser resources. Chrome helper processes left behind by
// a failed close are killed with the process tree.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	if r.launcher != nil {
		process.KillTree(r.launcher.PID())
		r.launcher.Cleanup()
	}
	r.browser = nil
	r.launcher = nil
	return err
}

// newPage opens a blank tab in the shared browser.
func (r *rodRenderer) newPage() (documentPage, error) {
	if r.openPage != nil {
		return r.openPage()
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return rodPage{page: page}, nil
}

// ToPDF loads htmlContent into a fresh tab and prints it. The tab is closed
// on every path, with a context that outlives a canceled ctx.
func (r *rodRenderer) ToPDF(ctx context.Context, htmlContent string, rc RenderConfig) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	page, err := r.newPage()
	if err != nil {
		return nil, err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pageCloseTimeout)
		defer cancel()
		_ = page.Close(closeCtx)
	}()

	if err := page.SetContent(ctx, htmlContent); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	pdf, err := page.PrintPDF(ctx, buildPDFOptions(rc))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions maps a RenderConfig to Chrome's print parameters.
// Only the Letter format is supported.
func buildPDFOptions(rc RenderConfig) *proto.PagePrintToPDF {
	opts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(pxToInches(rc.Margins.Top)),
		MarginRight:     floatPtr(pxToInches(rc.Margins.Right)),
		MarginBottom:    floatPtr(pxToInches(rc.Margins.Bottom)),
		MarginLeft:      floatPtr(pxToInches(rc.Margins.Left)),
		PrintBackground: rc.PrintBackground,
	}

	if rc.DisplayHeaderFooter {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = rc.HeaderTemplate
		opts.FooterTemplate = rc.FooterTemplate
	}
	return opts
}

func floatPtr(v float64) *float64 {
	return &v
}
