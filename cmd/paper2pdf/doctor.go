package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/alnah/go-paper2pdf/internal/assets"
	"github.com/alnah/go-paper2pdf/internal/config"
	"github.com/alnah/go-paper2pdf/internal/engine"
	"github.com/alnah/go-paper2pdf/internal/fileutil"
	"github.com/alnah/go-paper2pdf/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string       `json:"status"` // "ready", "warnings", "errors"
	Engine    engineInfo   `json:"engine"`
	Templates templateInfo `json:"templates"`
	Env       envInfo      `json:"environment"`
	System    systemInfo   `json:"system"`
	Warnings  []string     `json:"warnings,omitempty"`
	Errors    []string     `json:"errors,omitempty"`
}

// engineInfo holds typesetting engine detection results.
type engineInfo struct {
	Binary   string `json:"binary"`
	Disabled bool   `json:"disabled"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

// templateInfo holds template lookup results.
type templateInfo struct {
	Selected  string   `json:"selected"`
	AssetPath string   `json:"asset_path,omitempty"`
	Embedded  []string `json:"embedded"`
	Found     bool     `json:"found"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable    bool   `json:"temp_writable"`
	ScratchRoot     string `json:"scratch_root"`
	ScratchWritable bool   `json:"scratch_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	var common commonFlags
	var eng engineFlags
	jsonOutput := false

	fs := newFlagSet("doctor", env.Stdout, printDoctorUsage)
	addCommonFlags(fs, &common)
	addEngineFlags(fs, &eng)
	fs.BoolVar(&jsonOutput, "json", false, "output JSON")
	if err := parse(fs, args); err != nil {
		return report(env, err)
	}

	cfg, err := loadConfig(&common, env)
	if err != nil {
		return report(env, err)
	}
	mergeEngineFlags(fs, &eng, cfg)
	if err := cfg.Validate(); err != nil {
		return report(env, err)
	}

	comp := engine.New(
		engine.WithBinary(cfg.Engine.Binary),
		engine.WithTimeout(cfg.Engine.Timeout),
	)
	result := runDoctor(ctx, cfg, comp)

	if jsonOutput {
		_ = writeJSON(env.Stdout, result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, comp *engine.Compiler) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkEngine(ctx, result, cfg, comp)
	checkTemplates(result, cfg)
	checkEnvironment(result)
	checkSystem(result, cfg)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngine locates pdflatex. A missing engine is a warning: papers still
// render through the layout renderer.
func checkEngine(ctx context.Context, result *doctorResult, cfg *config.Config, comp *engine.Compiler) {
	result.Engine.Binary = comp.Binary()
	result.Engine.Disabled = cfg.Engine.Disabled
	if cfg.Engine.Disabled {
		return
	}

	path, err := comp.Locate()
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not found, papers will use the layout renderer%s", comp.Binary(), hints.ForEngineMissing()))
		return
	}
	result.Engine.Found = true
	result.Engine.Path = path

	version, err := comp.Version(ctx)
	if err != nil {
		msg := fmt.Sprintf("Could not get %s version: %v", comp.Binary(), err)
		if errors.Is(err, engine.ErrEngineTimeout) {
			msg += hints.ForTimeout()
		}
		result.Warnings = append(result.Warnings, msg)
		return
	}
	result.Engine.Version = version
}

// checkTemplates verifies that the selected template resolves.
func checkTemplates(result *doctorResult, cfg *config.Config) {
	embedded := assets.NewEmbeddedLoader()
	result.Templates.Selected = cfg.Assets.Template
	result.Templates.AssetPath = cfg.Assets.BasePath
	result.Templates.Embedded = embedded.TemplateNames()

	var loader assets.TemplateLoader = embedded
	if cfg.Assets.BasePath != "" {
		resolver, err := assets.NewTemplateResolver(cfg.Assets.BasePath)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Asset path unusable: %v", err))
			return
		}
		loader = resolver
	}

	if _, err := loader.LoadTemplate(cfg.Assets.Template); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Template %q not found%s", cfg.Assets.Template, hints.ForTemplateNotFound(result.Templates.Embedded)))
		return
	}
	result.Templates.Found = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies that scratch directories can be created.
func checkSystem(result *doctorResult, cfg *config.Config) {
	tmpDir := os.TempDir()
	if err := fileutil.IsDirWritable(tmpDir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		result.System.TempWritable = true
	}

	root := cfg.Engine.ScratchRoot
	if root == "" {
		result.System.ScratchRoot = tmpDir
		result.System.ScratchWritable = result.System.TempWritable
		return
	}
	result.System.ScratchRoot = root
	if err := fileutil.IsDirWritable(root); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Scratch directory not writable: %s (engine runs will fall back)", root))
		return
	}
	result.System.ScratchWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "paper2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Typesetting engine")
	switch {
	case r.Engine.Disabled:
		fmt.Fprintln(w, "  [OK] Disabled (layout renderer only)")
	case r.Engine.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Engine.Path)
		if r.Engine.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Engine.Version)
		}
	default:
		fmt.Fprintf(w, "  [WARN] %s not found (layout renderer will be used)\n", r.Engine.Binary)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Templates")
	if r.Templates.Found {
		fmt.Fprintf(w, "  [OK] Template: %s\n", r.Templates.Selected)
	} else {
		fmt.Fprintf(w, "  [ERROR] Template: %s\n", r.Templates.Selected)
	}
	if r.Templates.AssetPath != "" {
		fmt.Fprintf(w, "  [OK] Asset path: %s\n", r.Templates.AssetPath)
	}
	fmt.Fprintf(w, "  [OK] Embedded: %s\n", strings.Join(r.Templates.Embedded, ", "))
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
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.ScratchWritable {
		fmt.Fprintf(w, "  [OK] Scratch directory: %s\n", r.System.ScratchRoot)
	} else {
		fmt.Fprintf(w, "  [WARN] Scratch directory: %s not writable\n", r.System.ScratchRoot)
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
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
