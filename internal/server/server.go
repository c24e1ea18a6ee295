package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/eckman-tech/md2pdf-server/internal/hints"
)

// Default limits.
const (
	DefaultMaxUploadBytes  = 10 << 20
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
	maxMultipartMemory     = 8 << 20
)

// Options configures a Server.
type Options struct {
	Addr            string
	PublicDir       string // static UI, skipped when empty or missing
	UploadDir       string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	CORSOrigins     []string // empty disables CORS headers
	Browser         hints.Browser

	JanitorEnabled  bool
	JanitorSchedule string
	JanitorMaxAge   time.Duration
}

// Server is the HTTP front end of the converter.
type Server struct {
	opts    Options
	logger  *zap.Logger
	http    *http.Server
	janitor *Janitor
}

// New builds a server around conv. Nothing listens until Run.
func New(opts Options, conv Converter, logger *zap.Logger) (*Server, error) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{opts: opts, logger: logger}

	if opts.JanitorEnabled {
		j, err := NewJanitor(opts.UploadDir, opts.JanitorSchedule, opts.JanitorMaxAge, logger)
		if err != nil {
			return nil, err
		}
		s.janitor = j
	}

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(conv),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(logger),
	}
	return s, nil
}

// Handler returns the full HTTP handler: gin routes wrapped with CORS when
// origins are configured.
func (s *Server) Handler(conv Converter) http.Handler {
	engine := NewRouter(s.opts, conv, s.logger)
	if len(s.opts.CORSOrigins) == 0 {
		return engine
	}
	return cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
	}).Handler(engine)
}

// NewRouter builds the gin engine with middleware, API routes and the
// static file fallback.
func NewRouter(opts Options, conv Converter, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.MaxMultipartMemory = maxMultipartMemory
	engine.Use(requestID(), accessLog(logger), recovery(logger))

	h := NewHandler(conv, logger, opts.UploadDir, opts.MaxUploadBytes, opts.Browser)
	h.RegisterRoutes(&engine.RouterGroup)

	if opts.PublicDir != "" {
		if info, err := os.Stat(opts.PublicDir); err == nil && info.IsDir() {
			engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(opts.PublicDir))))
		} else {
			logger.Warn("public directory not found, static UI disabled", zap.String("dir", opts.PublicDir))
		}
	}
	return engine
}

// Run listens until ctx is canceled, then drains in-flight requests for
// up to ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.janitor != nil {
		s.janitor.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()
	s.logger.Info("server started", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		s.stopJanitor()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", zap.Duration("timeout", s.opts.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)
	s.stopJanitorCtx(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) stopJanitor() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.stopJanitorCtx(ctx)
}

func (s *Server) stopJanitorCtx(ctx context.Context) {
	if s.janitor != nil {
		s.janitor.Stop(ctx)
	}
}
