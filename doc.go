// Package md2pdf converts Markdown documents to branded PDFs using headless Chrome.
//
// # Quick Start
//
//	conv, err := md2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2pdf.Input{
//	    Markdown:         "# Hello\n\nWorld",
//	    TOC:              true,
//	    ShowHeaderFooter: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0o644)
//
// # Conversion Pipeline
//
//  1. Line ending normalization
//  2. Title page and table of contents prepended to the markdown in memory
//  3. Markdown to HTML via Goldmark (GFM, hard line breaks, heading IDs
//     matching the table of contents anchors, syntax highlighting)
//  4. Theme CSS injection, with optional page breaks before sections
//  5. PDF rendering via headless Chrome (go-rod) on US Letter paper, with
//     an optional logo/customer header and a date/page/company footer
//
// # Concurrency
//
// A Converter owns one browser and serves one conversion at a time. Servers
// use ConverterPool, which creates converters lazily up to its size:
//
//	pool := md2pdf.NewConverterPool(md2pdf.ResolvePoolSize(0))
//	defer pool.Close()
//	result, err := pool.Convert(ctx, input)
//
// # Custom Assets
//
// WithAssetPath overrides the embedded theme and header/footer templates:
//
//	assets/
//	├── styles/
//	│   └── theme.css
//	└── templates/
//	    ├── header.html
//	    └── footer.html
//
// Missing files fall back to the embedded versions.
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. go-rod downloads a managed Chromium on
// first run unless BrowserOptions.Bin is set. Containers usually need
// BrowserOptions.NoSandbox.
package md2pdf
