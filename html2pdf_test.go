package md2pdf

// Notes:
// - The renderer is tested against a mock tab; the real rod tab is covered
//   by the integration tests.
// - Close assertions record the context the tab was closed with, since a
//   tab closed on an already canceled context stays open in the browser.

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// mockPage implements documentPage for testing.
type mockPage struct {
	mu sync.Mutex

	loadErr  error
	pdf      []byte
	pdfErr   error
	blockFor string // "load" or "pdf": wait for ctx before returning

	content     string
	opts        *proto.PagePrintToPDF
	closed      bool
	closeCtxErr error
}

func (m *mockPage) SetContent(ctx context.Context, html string) error {
	m.mu.Lock()
	m.content = html
	m.mu.Unlock()
	if m.blockFor == "load" {
		<-ctx.Done()
		return errors.New("navigation aborted")
	}
	return m.loadErr
}

func (m *mockPage) PrintPDF(ctx context.Context, opts *proto.PagePrintToPDF) ([]byte, error) {
	m.mu.Lock()
	m.opts = opts
	m.mu.Unlock()
	if m.blockFor == "pdf" {
		<-ctx.Done()
		return nil, errors.New("print aborted")
	}
	return m.pdf, m.pdfErr
}

func (m *mockPage) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.closeCtxErr = ctx.Err()
	return nil
}

func newMockRenderer(page *mockPage, timeout time.Duration) *rodRenderer {
	r := newRodRenderer(BrowserOptions{}, timeout)
	r.openPage = func() (documentPage, error) { return page, nil }
	return r
}

// ---------------------------------------------------------------------------
// TestRodRenderer_ToPDF - Load, print and tab cleanup
// ---------------------------------------------------------------------------

func TestRodRenderer_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *mockPage
		want    string
		wantErr error
	}{
		{
			name: "success returns PDF bytes",
			page: &mockPage{pdf: []byte("%PDF-1.4 fake")},
			want: "%PDF-1.4 fake",
		},
		{
			name:    "load error",
			page:    &mockPage{loadErr: errors.New("bad document")},
			wantErr: ErrPageLoad,
		},
		{
			name:    "print error",
			page:    &mockPage{pdfErr: errors.New("printing failed")},
			wantErr: ErrPDFGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newMockRenderer(tt.page, defaultTimeout)
			rc := RenderConfig{Format: PageFormatLetter, Margins: Margins{Top: 96}}

			got, err := r.ToPDF(context.Background(), "<p>hi</p>", rc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ToPDF() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil || string(got) != tt.want {
				t.Errorf("ToPDF() = %q, %v, want %q", got, err, tt.want)
			}

			if tt.page.content != "<p>hi</p>" {
				t.Errorf("page content = %q, want the HTML passed in", tt.page.content)
			}
			if !tt.page.closed {
				t.Error("tab not closed")
			}
			if tt.wantErr == nil && (tt.page.opts == nil || *tt.page.opts.MarginTop != 1) {
				t.Errorf("print options not derived from render config: %+v", tt.page.opts)
			}
		})
	}
}

func TestRodRenderer_ClosesTabAfterCancellation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		blockFor string
		ctx      func() (context.Context, context.CancelFunc)
		timeout  time.Duration
		wantErr  error
	}{
		{
			name:     "deadline during load",
			blockFor: "load",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 20*time.Millisecond)
			},
			wantErr: context.DeadlineExceeded,
		},
		{
			name:     "renderer timeout during print",
			blockFor: "pdf",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
			timeout: 20 * time.Millisecond,
			wantErr: context.DeadlineExceeded,
		},
		{
			name:     "client gone during load",
			blockFor: "load",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(20*time.Millisecond, cancel)
				return ctx, cancel
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &mockPage{blockFor: tt.blockFor}
			r := newMockRenderer(page, tt.timeout)

			ctx, cancel := tt.ctx()
			defer cancel()

			if _, err := r.ToPDF(ctx, "<p>slow</p>", RenderConfig{}); !errors.Is(err, tt.wantErr) {
				t.Errorf("ToPDF() error = %v, want %v", err, tt.wantErr)
			}

			page.mu.Lock()
			defer page.mu.Unlock()
			if !page.closed {
				t.Fatal("tab not closed")
			}
			if page.closeCtxErr != nil {
				t.Errorf("tab closed with a dead context: %v", page.closeCtxErr)
			}
		})
	}
}

func TestRodRenderer_OpenPageError(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(BrowserOptions{}, defaultTimeout)
	r.openPage = func() (documentPage, error) { return nil, ErrPageCreate }

	if _, err := r.ToPDF(context.Background(), "<p>x</p>", RenderConfig{}); !errors.Is(err, ErrPageCreate) {
		t.Errorf("ToPDF() error = %v, want ErrPageCreate", err)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	if err := newRodRenderer(BrowserOptions{}, defaultTimeout).Close(); err != nil {
		t.Errorf("Close() before launch error = %v", err)
	}
}

func TestRodRenderer_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &mockPage{}
	if _, err := newMockRenderer(page, defaultTimeout).ToPDF(ctx, "<p>x</p>", RenderConfig{}); !errors.Is(err, context.Canceled) {
		t.Errorf("ToPDF() error = %v, want context.Canceled", err)
	}
	if page.content != "" {
		t.Error("no tab should be used after cancellation")
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - RenderConfig to Chrome print parameters
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	t.Run("letter with pixel margins", func(t *testing.T) {
		t.Parallel()

		opts := buildPDFOptions(RenderConfig{
			Format:          PageFormatLetter,
			Margins:         Margins{Top: 80, Right: 40, Bottom: 60, Left: 40},
			PrintBackground: true,
		})

		if *opts.PaperWidth != 8.5 || *opts.PaperHeight != 11 {
			t.Errorf("paper = %vx%v, want 8.5x11", *opts.PaperWidth, *opts.PaperHeight)
		}
		checks := []struct {
			name string
			got  float64
			want float64
		}{
			{"top", *opts.MarginTop, 80.0 / 96},
			{"right", *opts.MarginRight, 40.0 / 96},
			{"bottom", *opts.MarginBottom, 60.0 / 96},
			{"left", *opts.MarginLeft, 40.0 / 96},
		}
		for _, c := range checks {
			if c.got != c.want {
				t.Errorf("margin %s = %v, want %v", c.name, c.got, c.want)
			}
		}
		if !opts.PrintBackground {
			t.Error("PrintBackground = false, want true")
		}
		if opts.DisplayHeaderFooter || opts.HeaderTemplate != "" {
			t.Error("header/footer should be off")
		}
	})

	t.Run("header and footer templates", func(t *testing.T) {
		t.Parallel()

		opts := buildPDFOptions(RenderConfig{
			DisplayHeaderFooter: true,
			HeaderTemplate:      "<div>h</div>",
			FooterTemplate:      "<div>f</div>",
		})
		if !opts.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter = false, want true")
		}
		if opts.HeaderTemplate != "<div>h</div>" || opts.FooterTemplate != "<div>f</div>" {
			t.Errorf("templates = %q / %q", opts.HeaderTemplate, opts.FooterTemplate)
		}
	})
}

func TestNewLauncher(t *testing.T) {
	t.Parallel()

	l := newLauncher(BrowserOptions{Bin: "/usr/bin/chromium", NoSandbox: true})

	if !l.Has(flags.NoSandbox) {
		t.Error("--no-sandbox not set")
	}
	if !l.Has("disable-setuid-sandbox") {
		t.Error("--disable-setuid-sandbox not set")
	}
	if got := l.Get(flags.Bin); got != "/usr/bin/chromium" {
		t.Errorf("bin = %q", got)
	}

	if newLauncher(BrowserOptions{}).Has(flags.NoSandbox) {
		t.Error("sandbox should stay on by default")
	}
}
