package main

import (
	"errors"
	"os"

	md2pdf "github.com/eckman-tech/md2pdf-server"
	"github.com/eckman-tech/md2pdf-server/internal/config"
	"github.com/eckman-tech/md2pdf-server/internal/dateutil"
	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
	"github.com/eckman-tech/md2pdf-server/internal/logging"
	"github.com/eckman-tech/md2pdf-server/internal/server"
)

// Exit codes for md2pdf-server.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Clean exit
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2pdf.ErrBrowserConnect) ||
		errors.Is(err, md2pdf.ErrPageCreate) ||
		errors.Is(err, md2pdf.ErrPageLoad) ||
		errors.Is(err, md2pdf.ErrPDFGeneration) ||
		errors.Is(err, md2pdf.ErrRenderTimeout) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrInvalidEnv) ||
		errors.Is(err, logging.ErrInvalidLogConfig) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, md2pdf.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, md2pdf.ErrWriteOutput) ||
		errors.Is(err, fileutil.ErrDirNotWritable) ||
		errors.Is(err, server.ErrScopeCreate) {
		return ExitIO
	}

	return ExitGeneral
}
