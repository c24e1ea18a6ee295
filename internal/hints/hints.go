// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to
// error messages and log fields.
package hints

import (
	"os"
	"strings"

	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv") || os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

// Browser describes the renderer's browser settings relevant to hints.
type Browser struct {
	Bin       string
	NoSandbox bool
}

// ForBrowserConnect returns hints for browser launch and connection errors.
func ForBrowserConnect(b Browser) string {
	var hints []string

	if IsInContainer() && !b.NoSandbox {
		hints = append(hints, "set render.noSandbox: true (MD2PDF_NO_SANDBOX=true) inside containers")
	}
	if b.Bin == "" {
		hints = append(hints, "set render.browserBin (MD2PDF_BROWSER_BIN) to use an installed Chrome")
	}
	hints = append(hints, "run `md2pdf-server doctor` to check the browser setup")

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the render timeout.
func ForTimeout() string {
	return format("for large documents, raise render.timeout (MD2PDF_RENDER_TIMEOUT)")
}

// ForConfigNotFound returns a hint listing where config files are searched.
func ForConfigNotFound(searchedPaths []string) string {
	if len(searchedPaths) == 0 {
		return format("use --config /path/to/config.yaml")
	}
	return format("use --config /path/to/config.yaml or create " + searchedPaths[len(searchedPaths)-1])
}

// ForUploadDir returns a hint for an unusable upload directory.
func ForUploadDir(dir string) string {
	return format("check that " + dir + " exists and is writable, or set server.uploadDir (MD2PDF_UPLOAD_DIR)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
