package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eckman-tech/md2pdf-server/internal/dateutil"
	"github.com/eckman-tech/md2pdf-server/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidValue   = errors.New("invalid config value")
)

// DefaultFileName is searched for when no config path is given.
const DefaultFileName = "md2pdf-server.yaml"

// Field limits.
const (
	MaxOrganizationLength = 100
	MaxURLLength          = 2048
	MaxUploadBytesLimit   = 100 << 20
	MaxWorkers            = 32
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Render   RenderConfig   `yaml:"render"`
	Branding BrandingConfig `yaml:"branding"`
	Janitor  JanitorConfig  `yaml:"janitor"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig defines the HTTP listener and upload handling.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	PublicDir       string        `yaml:"publicDir"`       // static UI, empty disables
	UploadDir       string        `yaml:"uploadDir"`       // per-request temp dirs live here
	MaxUploadBytes  int64         `yaml:"maxUploadBytes"`  // per file
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // drain period on SIGTERM
	CORSOrigins     []string      `yaml:"corsOrigins"`     // empty disables CORS handling
}

// RenderConfig defines the headless browser.
type RenderConfig struct {
	Timeout    time.Duration `yaml:"timeout"`    // per conversion
	Workers    int           `yaml:"workers"`    // browser instances, 0 = auto
	BrowserBin string        `yaml:"browserBin"` // empty = rod lookup/download
	NoSandbox  bool          `yaml:"noSandbox"`
	AssetsDir  string        `yaml:"assetsDir"` // theme/template overrides
}

// BrandingConfig defines the fixed attribution printed on documents.
type BrandingConfig struct {
	Organization    string `yaml:"organization"`
	OrganizationURL string `yaml:"organizationURL"`
	DateFormat      string `yaml:"dateFormat"` // literal date or "auto[:FORMAT]"
}

// JanitorConfig defines the sweep of upload dirs orphaned by crashes.
type JanitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Schedule string        `yaml:"schedule"` // cron spec or descriptor
	MaxAge   time.Duration `yaml:"maxAge"`
}

// LogConfig defines logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration the service runs with when no
// file or environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3737,
			PublicDir:       "public",
			UploadDir:       "uploads",
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Render: RenderConfig{
			Timeout:   60 * time.Second,
			NoSandbox: true,
		},
		Branding: BrandingConfig{
			Organization:    "Eckman Tech LLC",
			OrganizationURL: "https://eckman-tech.com",
			DateFormat:      dateutil.AutoLong,
		},
		Janitor: JanitorConfig{
			Enabled:  true,
			Schedule: "@every 10m",
			MaxAge:   time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Validate checks ranges and lengths. Called by Load and again after env
// and flag overrides are applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be between 1 and 65535, got %d", ErrInvalidValue, c.Server.Port)
	}
	if c.Server.UploadDir == "" {
		return fmt.Errorf("%w: server.uploadDir is required", ErrInvalidValue)
	}
	if c.Server.MaxUploadBytes <= 0 || c.Server.MaxUploadBytes > MaxUploadBytesLimit {
		return fmt.Errorf("%w: server.maxUploadBytes must be between 1 and %d, got %d", ErrInvalidValue, MaxUploadBytesLimit, c.Server.MaxUploadBytes)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdownTimeout must be positive", ErrInvalidValue)
	}

	if c.Render.Timeout <= 0 {
		return fmt.Errorf("%w: render.timeout must be positive", ErrInvalidValue)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}

	if err := validateFieldLength("branding.organization", c.Branding.Organization, MaxOrganizationLength); err != nil {
		return err
	}
	if err := validateFieldLength("branding.organizationURL", c.Branding.OrganizationURL, MaxURLLength); err != nil {
		return err
	}
	if _, err := dateutil.ResolveDate(c.Branding.DateFormat, time.Now()); err != nil {
		return fmt.Errorf("branding.dateFormat: %w", err)
	}

	if c.Janitor.Enabled {
		if _, err := cron.ParseStandard(c.Janitor.Schedule); err != nil {
			return fmt.Errorf("%w: janitor.schedule %q: %v", ErrInvalidValue, c.Janitor.Schedule, err)
		}
		if c.Janitor.MaxAge <= 0 {
			return fmt.Errorf("%w: janitor.maxAge must be positive", ErrInvalidValue)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q (must be json or console)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Load reads the YAML file at path over DefaultConfig.
// With an empty path, DefaultFileName is searched for in the working
// directory and the user config directory; finding none is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = findDefaultFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where Load looks when no path is given, in order.
func SearchPaths() []string {
	paths := []string{DefaultFileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "md2pdf-server", DefaultFileName))
	}
	return paths
}

func findDefaultFile() string {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
