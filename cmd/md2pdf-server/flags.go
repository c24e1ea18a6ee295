package main

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/eckman-tech/md2pdf-server/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config string
}

// browserFlags holds headless Chrome settings shared by serve and convert.
type browserFlags struct {
	bin       string
	noSandbox bool
	timeout   time.Duration
	assetsDir string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	host           string
	port           int
	publicDir      string
	uploadDir      string
	maxUploadBytes int64
	corsOrigins    []string
	workers        int
	logLevel       string
	logFormat      string
	browser        browserFlags
}

// convertFlags holds flags for the convert command.
type convertFlags struct {
	output        string
	titlePage     bool
	title         string
	titleLogo     string
	toc           bool
	tocAfterTitle bool
	pageBreaks    bool
	headerFooter  bool
	headerLogo    string
	customer      string
	date          string
	htmlOnly      bool
	browser       browserFlags
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file (default: search "+config.DefaultFileName+", or $"+config.EnvConfigPath+")")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium executable (default: auto-detect)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.DurationVar(&f.timeout, "timeout", 0, "render timeout per document (e.g. 90s)")
	fs.StringVar(&f.assetsDir, "assets-dir", "", "directory overriding the embedded theme and templates")
}

func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	fs.StringVar(&f.host, "host", "", "interface to listen on")
	fs.IntVarP(&f.port, "port", "p", 0, "port to listen on")
	fs.StringVar(&f.publicDir, "public-dir", "", "static UI directory")
	fs.StringVar(&f.uploadDir, "upload-dir", "", "directory for per-request upload scopes")
	fs.Int64Var(&f.maxUploadBytes, "max-upload-bytes", 0, "per-file upload limit in bytes")
	fs.StringSliceVar(&f.corsOrigins, "cors-origin", nil, "allowed CORS origin (repeatable)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent browser instances (0 = auto)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: json, console")
	addBrowserFlags(fs, &f.browser)
}

func addConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: input with .pdf or .html)")
	fs.BoolVar(&f.titlePage, "title-page", false, "prepend a title page (requires --title)")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.titleLogo, "title-logo", "", "logo shown on the title page")
	fs.BoolVar(&f.toc, "toc", false, "prepend a table of contents")
	fs.BoolVar(&f.tocAfterTitle, "toc-after-title", false, "place the table of contents after the title page")
	fs.BoolVar(&f.pageBreaks, "page-breaks", false, "start every section on a new page")
	fs.BoolVar(&f.headerFooter, "header-footer", false, "print page header and footer")
	fs.StringVar(&f.headerLogo, "header-logo", "", "logo shown in the page header")
	fs.StringVar(&f.customer, "customer", "", "customer name shown in the page header")
	fs.StringVar(&f.date, "date", "", "date override: literal text, auto, auto:long, auto:FORMAT")
	fs.BoolVar(&f.htmlOnly, "html", false, "write the intermediate HTML instead of a PDF")
	addBrowserFlags(fs, &f.browser)
}

// apply copies explicitly set browser flags onto cfg.
func (f *browserFlags) apply(fs *flag.FlagSet, cfg *config.Config) {
	if fs.Changed("browser-bin") {
		cfg.Render.BrowserBin = f.bin
	}
	if fs.Changed("no-sandbox") {
		cfg.Render.NoSandbox = f.noSandbox
	}
	if fs.Changed("timeout") {
		cfg.Render.Timeout = f.timeout
	}
	if fs.Changed("assets-dir") {
		cfg.Render.AssetsDir = f.assetsDir
	}
}

// apply copies explicitly set serve flags onto cfg.
func (f *serveFlags) apply(fs *flag.FlagSet, cfg *config.Config) {
	if fs.Changed("host") {
		cfg.Server.Host = f.host
	}
	if fs.Changed("port") {
		cfg.Server.Port = f.port
	}
	if fs.Changed("public-dir") {
		cfg.Server.PublicDir = f.publicDir
	}
	if fs.Changed("upload-dir") {
		cfg.Server.UploadDir = f.uploadDir
	}
	if fs.Changed("max-upload-bytes") {
		cfg.Server.MaxUploadBytes = f.maxUploadBytes
	}
	if fs.Changed("cors-origin") {
		cfg.Server.CORSOrigins = f.corsOrigins
	}
	if fs.Changed("workers") {
		cfg.Render.Workers = f.workers
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	f.browser.apply(fs, cfg)
}
