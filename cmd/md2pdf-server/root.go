package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eckman-tech/md2pdf-server/internal/config"
	"github.com/eckman-tech/md2pdf-server/internal/server"
	"github.com/eckman-tech/md2pdf-server/internal/yamlutil"
)

// ErrUsage marks command line mistakes: unknown flags, wrong arguments.
var ErrUsage = errors.New("invalid usage")

// newRootCmd builds the command tree.
func newRootCmd(env *Environment) *cobra.Command {
	common := &commonFlags{}

	root := &cobra.Command{
		Use:           "md2pdf-server",
		Short:         "Convert Markdown to branded PDF documents over HTTP",
		Long:          "md2pdf-server renders uploaded Markdown to PDF with headless Chrome.\nRun `md2pdf-server serve` to start the HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(root.PersistentFlags(), common)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	root.AddCommand(
		newServeCmd(env, common),
		newConvertCmd(env, common),
		newDoctorCmd(env, common),
		newConfigCmd(env, common),
		newVersionCmd(env),
	)
	return root
}

// newVersionCmd prints the build and API versions.
func newVersionCmd(env *Environment) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(env.Stdout, "md2pdf-server %s (API %s)\n", Version, server.APIVersion)
		},
	}
}

// newConfigCmd prints the effective configuration as YAML.
func newConfigCmd(env *Environment, common *commonFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after merging defaults, the config file and MD2PDF_* environment variables.",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(common.config, env)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			out, err := yamlutil.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = env.Stdout.Write(out)
			return err
		},
	}
}

// loadConfig resolves file and environment settings. Command flags are
// applied on top by the caller, which then validates.
// Precedence: flags > environment > file > defaults.
func loadConfig(path string, env *Environment) (*config.Config, error) {
	if path == "" {
		if v, ok := env.Lookup(config.EnvConfigPath); ok {
			path = v
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, env.Lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}
