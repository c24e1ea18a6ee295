package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	md2pdf "github.com/eckman-tech/md2pdf-server"
	"github.com/eckman-tech/md2pdf-server/internal/hints"
)

// APIVersion is reported by /health.
const APIVersion = "1.0.0"

// multipartOverhead is added to the per-file limit times the number of
// file fields to bound the whole request body.
const multipartOverhead = 1 << 20

// Converter is the conversion backend, satisfied by *md2pdf.ConverterPool.
type Converter interface {
	Convert(ctx context.Context, input md2pdf.Input) (*md2pdf.ConvertResult, error)
}

// Handler serves the conversion API.
type Handler struct {
	conv           Converter
	logger         *zap.Logger
	uploadDir      string
	maxUploadBytes int64
	browser        hints.Browser
}

// NewHandler creates a conversion handler saving uploads under uploadDir.
func NewHandler(conv Converter, logger *zap.Logger, uploadDir string, maxUploadBytes int64, browser hints.Browser) *Handler {
	return &Handler{
		conv:           conv,
		logger:         logger,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		browser:        browser,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.health)
	router.POST("/convert", h.convert)
}

// health handles GET /health
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": APIVersion})
}

// convert handles POST /convert
func (h *Handler) convert(c *gin.Context) {
	log := requestLogger(c, h.logger)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 3*h.maxUploadBytes+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.fail(c, log, fmt.Errorf("%w: request body exceeds %d bytes", ErrFileTooLarge, maxErr.Limit))
			return
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			h.fail(c, log, ErrNoMarkdown)
			return
		}
		h.fail(c, log, fmt.Errorf("%w: %v", ErrInvalidForm, err))
		return
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			log.Debug("removing multipart temp files", zap.Error(err))
		}
	}()

	req, err := parseConversionRequest(form)
	if err != nil {
		h.fail(c, log, err)
		return
	}
	if err := req.checkSizes(h.maxUploadBytes); err != nil {
		h.fail(c, log, err)
		return
	}

	scope, err := NewScope(h.uploadDir, h.maxUploadBytes)
	if err != nil {
		log.Error("upload directory unusable", zap.Error(err), zap.String("hint", hints.ForUploadDir(h.uploadDir)))
		h.fail(c, log, err)
		return
	}
	defer func() {
		if err := scope.Release(); err != nil {
			log.Debug("releasing upload scope", zap.String("dir", scope.Dir()), zap.Error(err))
		}
	}()

	input, err := req.toInput(scope)
	if err != nil {
		h.fail(c, log, err)
		return
	}

	log.Info("converting",
		zap.String("file", req.Markdown.Filename),
		zap.Bool("toc", input.TOC),
		zap.Bool("titlePage", input.TitlePage),
		zap.Bool("headerFooter", input.ShowHeaderFooter),
		zap.Bool("pageBreaks", input.PageBreakSections),
	)

	result, err := h.conv.Convert(c.Request.Context(), input)
	if err != nil {
		h.logConversionError(log, err)
		h.fail(c, log, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="document.pdf"`)
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// fail writes the JSON error body for err.
func (h *Handler) fail(c *gin.Context, log *zap.Logger, err error) {
	status := statusFor(err)

	var body gin.H
	switch {
	case errors.Is(err, ErrNoMarkdown):
		body = gin.H{"error": errorNoMarkdown}
	case errors.Is(err, ErrFileTooLarge):
		body = gin.H{"error": errorFileTooLarge, "message": err.Error()}
	case errors.Is(err, ErrInvalidForm):
		body = gin.H{"error": errorInvalidForm, "message": err.Error()}
	default:
		body = gin.H{"error": errorConversionFailed, "message": err.Error()}
	}

	if status >= http.StatusInternalServerError {
		log.Error("conversion failed", zap.Error(err))
	} else {
		log.Info("request rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, body)
}

// logConversionError adds actionable hints for known renderer failures.
func (h *Handler) logConversionError(log *zap.Logger, err error) {
	switch {
	case errors.Is(err, md2pdf.ErrBrowserConnect):
		log.Warn("browser unavailable", zap.String("hint", hints.ForBrowserConnect(h.browser)))
	case errors.Is(err, md2pdf.ErrRenderTimeout):
		log.Warn("render timed out", zap.String("hint", hints.ForTimeout()))
	}
}
