package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"

	"github.com/eckman-tech/md2pdf-server/internal/config"
	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds filesystem check results.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	UploadDir      string `json:"upload_dir"`
	UploadWritable bool   `json:"upload_writable"`
	PublicDir      string `json:"public_dir,omitempty"`
	PublicFound    bool   `json:"public_found"`
}

// doctorChecks holds the probes doctor runs, replaceable in tests.
type doctorChecks struct {
	lookPath      func() (string, bool)
	chromeVersion func(path string) (string, error)
	fileExists    func(path string) bool
}

func defaultDoctorChecks() doctorChecks {
	return doctorChecks{
		lookPath: launcher.LookPath,
		chromeVersion: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- configured browser binary
			return strings.TrimSpace(string(out)), err
		},
		fileExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

func newDoctorCmd(env *Environment, common *commonFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the browser and directories are ready",
		Args:  noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(common.config, env)
			if err != nil {
				return err
			}

			result := runDoctor(cfg, env, defaultDoctorChecks())
			if jsonOutput {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printDoctorResult(env.Stdout, result)
			}

			if result.Status == statusErrors {
				return errDoctorFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	return cmd
}

// errDoctorFailed maps a failed check to ExitGeneral.
var errDoctorFailed = errors.New("doctor found errors")

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, env *Environment, checks doctorChecks) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkChrome(result, cfg, checks)
	checkEnvironment(result, cfg, env, checks)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkChrome detects the browser the renderer will launch.
func checkChrome(result *doctorResult, cfg *config.Config, checks doctorChecks) {
	result.Chrome.Sandbox = !cfg.Render.NoSandbox

	chromePath := cfg.Render.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = checks.lookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; it will be downloaded on first conversion. Set render.browserBin to use an installed one")
			return
		}
	}

	if !checks.fileExists(chromePath) {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	version, err := checks.chromeVersion(chromePath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	result.Chrome.Version = version
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *config.Config, env *Environment, checks doctorChecks) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env, checks)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if val, ok := env.Lookup(v); ok && val != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !cfg.Render.NoSandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the sandbox is enabled. Set MD2PDF_NO_SANDBOX=true")
	}
}

// isContainer reports whether we run in a container and which signal said so.
func isContainer(env *Environment, checks doctorChecks) (bool, string) {
	if v, _ := env.Lookup(config.EnvContainer); v == "1" {
		return true, config.EnvContainer + "=1"
	}
	if checks.fileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v, _ := env.Lookup("container"); v != "" {
		return true, "container=" + v
	}
	if v, _ := env.Lookup("KUBERNETES_SERVICE_HOST"); v != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the directories the server writes to and serves.
func checkSystem(result *doctorResult, cfg *config.Config) {
	if err := fileutil.CheckDirWritable(os.TempDir()); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	} else {
		result.System.TempWritable = true
	}

	result.System.UploadDir = cfg.Server.UploadDir
	if err := fileutil.CheckDirWritable(cfg.Server.UploadDir); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Upload directory not writable: %s", cfg.Server.UploadDir))
	} else {
		result.System.UploadWritable = true
	}

	result.System.PublicDir = cfg.Server.PublicDir
	if cfg.Server.PublicDir != "" {
		if info, err := os.Stat(cfg.Server.PublicDir); err == nil && info.IsDir() {
			result.System.PublicFound = true
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Public directory %s not found; the upload page will not be served", cfg.Server.PublicDir))
		}
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2pdf-server doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found locally")
	}
	if r.Chrome.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintln(w, "  [OK] Sandbox: disabled")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	printCheck(w, r.System.TempWritable, "Temp directory: writable", "Temp directory: not writable")
	printCheck(w, r.System.UploadWritable,
		"Upload directory: "+r.System.UploadDir+" writable",
		"Upload directory: "+r.System.UploadDir+" not writable")
	if r.System.PublicDir != "" && r.System.PublicFound {
		fmt.Fprintf(w, "  [OK] Public directory: %s\n", r.System.PublicDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to serve")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printCheck(w io.Writer, ok bool, okMsg, errMsg string) {
	if ok {
		fmt.Fprintf(w, "  [OK] %s\n", okMsg)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s\n", errMsg)
	}
}
