package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidEnv is returned when an MD2PDF_* variable cannot be parsed.
var ErrInvalidEnv = errors.New("invalid environment variable")

// EnvPrefix is shared by every recognized environment variable.
const EnvPrefix = "MD2PDF_"

// EnvConfigPath names the variable holding the config file path. It is
// read by the command layer before Load, not by ApplyEnv.
const EnvConfigPath = "MD2PDF_CONFIG"

// EnvContainer forces container detection in diagnostics when set to "1".
const EnvContainer = "MD2PDF_CONTAINER"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSetter applies one variable's raw value to cfg.
type envSetter func(cfg *Config, value string) error

// envVars maps each recognized variable to its setter.
var envVars = map[string]envSetter{
	// Server
	"MD2PDF_HOST":             func(c *Config, v string) error { c.Server.Host = v; return nil },
	"MD2PDF_PORT":             intSetter(func(c *Config) *int { return &c.Server.Port }),
	"MD2PDF_PUBLIC_DIR":       func(c *Config, v string) error { c.Server.PublicDir = v; return nil },
	"MD2PDF_UPLOAD_DIR":       func(c *Config, v string) error { c.Server.UploadDir = v; return nil },
	"MD2PDF_MAX_UPLOAD_BYTES": int64Setter(func(c *Config) *int64 { return &c.Server.MaxUploadBytes }),
	"MD2PDF_SHUTDOWN_TIMEOUT": durationSetter(func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout }),
	"MD2PDF_CORS_ORIGINS":     func(c *Config, v string) error { c.Server.CORSOrigins = splitList(v); return nil },
	// Render
	"MD2PDF_RENDER_TIMEOUT": durationSetter(func(c *Config) *time.Duration { return &c.Render.Timeout }),
	"MD2PDF_WORKERS":        intSetter(func(c *Config) *int { return &c.Render.Workers }),
	"MD2PDF_BROWSER_BIN":    func(c *Config, v string) error { c.Render.BrowserBin = v; return nil },
	"MD2PDF_NO_SANDBOX":     boolSetter(func(c *Config) *bool { return &c.Render.NoSandbox }),
	"MD2PDF_ASSETS_DIR":     func(c *Config, v string) error { c.Render.AssetsDir = v; return nil },
	// Branding
	"MD2PDF_ORGANIZATION":     func(c *Config, v string) error { c.Branding.Organization = v; return nil },
	"MD2PDF_ORGANIZATION_URL": func(c *Config, v string) error { c.Branding.OrganizationURL = v; return nil },
	"MD2PDF_DATE_FORMAT":      func(c *Config, v string) error { c.Branding.DateFormat = v; return nil },
	// Janitor
	"MD2PDF_JANITOR_ENABLED":  boolSetter(func(c *Config) *bool { return &c.Janitor.Enabled }),
	"MD2PDF_JANITOR_SCHEDULE": func(c *Config, v string) error { c.Janitor.Schedule = v; return nil },
	"MD2PDF_JANITOR_MAX_AGE":  durationSetter(func(c *Config) *time.Duration { return &c.Janitor.MaxAge }),
	// Log
	"MD2PDF_LOG_LEVEL":  func(c *Config, v string) error { c.Log.Level = v; return nil },
	"MD2PDF_LOG_FORMAT": func(c *Config, v string) error { c.Log.Format = v; return nil },
}

// ApplyEnv overrides cfg with every set MD2PDF_* variable. Empty values
// are ignored. Environment wins over the config file; flags are applied
// afterwards by the caller.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	var errs []error
	for name, set := range envVars {
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := set(cfg, value); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidEnv, name, value, err))
		}
	}
	return errors.Join(errs...)
}

// UnknownEnvVars returns MD2PDF_* names in environ that are not
// recognized, so typos like MD2PDF_RENDER_TIMOUT can be reported.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, EnvPrefix) || name == EnvConfigPath || name == EnvContainer {
			continue
		}
		if _, ok := envVars[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

func intSetter(field func(*Config) *int) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func int64Setter(field func(*Config) *int64) envSetter {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func durationSetter(field func(*Config) *time.Duration) envSetter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func boolSetter(field func(*Config) *bool) envSetter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
