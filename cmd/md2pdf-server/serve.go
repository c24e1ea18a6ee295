package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	md2pdf "github.com/eckman-tech/md2pdf-server"
	"github.com/eckman-tech/md2pdf-server/internal/config"
	"github.com/eckman-tech/md2pdf-server/internal/hints"
	"github.com/eckman-tech/md2pdf-server/internal/logging"
	"github.com/eckman-tech/md2pdf-server/internal/server"
)

func newServeCmd(env *Environment, common *commonFlags) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP conversion server",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(common.config, env)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, env)
		},
	}
	addServeFlags(cmd.Flags(), f)
	return cmd
}

// runServe starts the converter pool and HTTP server and blocks until ctx
// is canceled.
func runServe(ctx context.Context, cfg *config.Config, env *Environment) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(logging.Printf(logger)))

	for _, name := range config.UnknownEnvVars(env.Environ()) {
		logger.Warn("ignoring unknown environment variable", zap.String("name", name))
	}

	pool := newPool(cfg)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converter pool", zap.Error(err))
		}
	}()

	// Fail fast on bad asset overrides; browsers still start lazily.
	conv, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	pool.Release(conv)

	gin.SetMode(ginMode(cfg.Log.Level))

	srv, err := server.New(server.Options{
		Addr:            cfg.Addr(),
		PublicDir:       cfg.Server.PublicDir,
		UploadDir:       cfg.Server.UploadDir,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		Browser:         hints.Browser{Bin: cfg.Render.BrowserBin, NoSandbox: cfg.Render.NoSandbox},
		JanitorEnabled:  cfg.Janitor.Enabled,
		JanitorSchedule: cfg.Janitor.Schedule,
		JanitorMaxAge:   cfg.Janitor.MaxAge,
	}, pool, logger)
	if err != nil {
		return err
	}

	logger.Info("starting md2pdf-server",
		zap.String("version", Version),
		zap.String("addr", cfg.Addr()),
		zap.Int("workers", pool.Size()),
		zap.Duration("renderTimeout", cfg.Render.Timeout),
	)
	return srv.Run(ctx)
}

// ginMode keeps gin's route dump and debug warnings for debug logging only.
func ginMode(logLevel string) string {
	if logLevel == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// newPool builds the converter pool from cfg.
func newPool(cfg *config.Config) *md2pdf.ConverterPool {
	return md2pdf.NewConverterPool(md2pdf.ResolvePoolSize(cfg.Render.Workers), converterOptions(cfg)...)
}

// converterOptions maps render and branding settings to converter options.
func converterOptions(cfg *config.Config) []md2pdf.Option {
	return []md2pdf.Option{
		md2pdf.WithTimeout(cfg.Render.Timeout),
		md2pdf.WithAssetPath(cfg.Render.AssetsDir),
		md2pdf.WithBrowser(md2pdf.BrowserOptions{
			Bin:       cfg.Render.BrowserBin,
			NoSandbox: cfg.Render.NoSandbox,
		}),
		md2pdf.WithBranding(md2pdf.Branding{
			Organization:    cfg.Branding.Organization,
			OrganizationURL: cfg.Branding.OrganizationURL,
			DateFormat:      cfg.Branding.DateFormat,
		}),
	}
}
