package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	md2pdf "github.com/eckman-tech/md2pdf-server"
	"github.com/eckman-tech/md2pdf-server/internal/config"
	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
)

// ErrReadMarkdown is returned when the input file cannot be read.
var ErrReadMarkdown = errors.New("failed to read markdown")

func newConvertCmd(env *Environment, common *commonFlags) *cobra.Command {
	f := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <input.md>",
		Short: "Convert one Markdown file locally, without the HTTP server",
		Example: `  md2pdf-server convert report.md
  md2pdf-server convert report.md -o out.pdf --title "Q3 Report" --title-page --toc --header-footer`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(common.config, env)
			if err != nil {
				return err
			}
			f.browser.apply(cmd.Flags(), cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runConvert(cmd, args[0], f, cfg, env)
		},
	}
	addConvertFlags(cmd.Flags(), f)
	return cmd
}

// runConvert renders inputPath with a single converter.
func runConvert(cmd *cobra.Command, inputPath string, f *convertFlags, cfg *config.Config, env *Environment) error {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadMarkdown, inputPath, err)
	}

	output := f.output
	if output == "" {
		output = defaultOutputPath(inputPath, f.htmlOnly)
	}

	input := md2pdf.Input{
		Markdown:          string(content),
		TitlePage:         f.titlePage,
		Title:             f.title,
		TitleLogoPath:     f.titleLogo,
		TOC:               f.toc,
		TOCAfterTitlePage: f.tocAfterTitle,
		PageBreakSections: f.pageBreaks,
		ShowHeaderFooter:  f.headerFooter,
		HeaderLogoPath:    f.headerLogo,
		CustomerName:      f.customer,
		Date:              f.date,
		SourceDir:         filepath.Dir(inputPath),
		HTMLOnly:          f.htmlOnly,
	}
	if !f.htmlOnly {
		input.Dest = output
	}

	conv, err := md2pdf.NewConverter(converterOptions(cfg)...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	start := env.Now()
	result, err := conv.Convert(cmd.Context(), input)
	if err != nil {
		return err
	}

	if f.htmlOnly {
		if err := fileutil.WriteAtomic(output, result.HTML, 0o644); err != nil {
			return fmt.Errorf("%w: %v", md2pdf.ErrWriteOutput, err)
		}
	}

	fmt.Fprintf(env.Stdout, "%s -> %s (%s)\n", inputPath, output, env.Now().Sub(start).Round(time.Millisecond))
	return nil
}

// defaultOutputPath swaps the input extension for .pdf or .html.
func defaultOutputPath(inputPath string, html bool) string {
	ext := ".pdf"
	if html {
		ext = ".html"
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
}
