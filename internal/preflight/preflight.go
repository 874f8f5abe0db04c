// Package preflight checks that the external tools the pipeline runs are
// installed and recent enough.
package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	"github.com/itechmeat/start-vibe-project/internal/ctxutil"
)

//nolint:gochecknoglobals // compiled once, read-only
var (
	gitVersionRe     = regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`)
	genericVersionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)
)

// Status is the installation status of a tool.
type Status string

// Tool statuses.
const (
	StatusInstalled Status = "installed"
	StatusMissing   Status = "missing"
	StatusOutdated  Status = "outdated"
)

// Tool is the detection result for one external tool.
type Tool struct {
	Name           string `json:"name"`
	Required       bool   `json:"required"`
	MinVersion     string `json:"min_version,omitempty"`
	CurrentVersion string `json:"current_version,omitempty"`
	Status         Status `json:"status"`
	InstallHint    string `json:"install_hint"`
}

// Report is the result of a detection run, ordered like the tool table.
type Report struct {
	Tools []Tool `json:"tools"`
}

// Problems returns the required tools that are missing or outdated.
func (r Report) Problems() []Tool {
	var out []Tool
	for _, t := range r.Tools {
		if t.Required && t.Status != StatusInstalled {
			out = append(out, t)
		}
	}
	return out
}

// OK reports whether every required tool is installed and recent enough.
func (r Report) OK() bool {
	return len(r.Problems()) == 0
}

// Executor abstracts PATH lookup and command execution.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecExecutor runs real processes.
type ExecExecutor struct{}

// LookPath searches PATH for file.
func (ExecExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run returns the combined output of name args.
func (ExecExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

type toolSpec struct {
	name       string
	minVersion string
	hint       string
	parse      func(string) string
}

func toolSpecs() []toolSpec {
	return []toolSpec{
		{
			name:       constants.ToolNode,
			minVersion: constants.MinVersionNode,
			hint:       "Install Node.js 18+ from https://nodejs.org",
			parse:      parseGenericVersion,
		},
		{
			name:  constants.ToolNPM,
			hint:  "npm ships with Node.js; reinstall Node.js from https://nodejs.org",
			parse: parseGenericVersion,
		},
		{
			name:  constants.ToolNPX,
			hint:  "npx ships with npm 7+; run: npm install -g npm",
			parse: parseGenericVersion,
		},
		{
			name:       constants.ToolGit,
			minVersion: constants.MinVersionGit,
			hint:       "Install Git from https://git-scm.com/downloads",
			parse:      parseGitVersion,
		},
	}
}

// Detector probes the tool table concurrently.
type Detector struct {
	exec Executor
}

// NewDetector creates a Detector. A nil executor runs real processes.
func NewDetector(executor Executor) *Detector {
	if executor == nil {
		executor = ExecExecutor{}
	}
	return &Detector{exec: executor}
}

// Detect checks every tool within constants.ToolDetectionTimeout.
func (d *Detector) Detect(ctx context.Context) (Report, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return Report{}, err
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	specs := toolSpecs()
	tools := make([]Tool, len(specs))

	g, gCtx := errgroup.WithContext(detectCtx)
	for i, spec := range specs {
		g.Go(func() error {
			tools[i] = d.detect(gCtx, spec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("failed to detect tools: %w", err)
	}
	return Report{Tools: tools}, nil
}

func (d *Detector) detect(ctx context.Context, spec toolSpec) Tool {
	tool := Tool{
		Name:        spec.name,
		Required:    true,
		MinVersion:  spec.minVersion,
		InstallHint: spec.hint,
		Status:      StatusMissing,
	}

	if _, err := d.exec.LookPath(spec.name); err != nil {
		return tool
	}

	output, err := d.exec.Run(ctx, spec.name, constants.VersionFlag)
	tool.Status = StatusInstalled
	if err != nil {
		tool.CurrentVersion = "unknown"
		return tool
	}

	tool.CurrentVersion = spec.parse(output)
	if tool.CurrentVersion == "" {
		tool.CurrentVersion = "unknown"
		return tool
	}

	if spec.minVersion != "" && !AtLeast(tool.CurrentVersion, spec.minVersion) {
		tool.Status = StatusOutdated
	}
	return tool
}

// AtLeast reports whether current >= minimum. Unparsable versions pass, so a
// tool with odd version output is never reported as outdated.
func AtLeast(current, minimum string) bool {
	cur, err := semver.NewVersion(strings.TrimSpace(current))
	if err != nil {
		return true
	}
	minV, err := semver.NewVersion(minimum)
	if err != nil {
		return true
	}
	return !cur.LessThan(minV)
}

// parseGitVersion parses "git version 2.39.0" → "2.39.0".
func parseGitVersion(output string) string {
	if m := gitVersionRe.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// parseGenericVersion parses "v20.11.1" or "10.2.4" → the dotted version.
func parseGenericVersion(output string) string {
	if m := genericVersionRe.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// Names returns the probed tool names in table order.
func Names() []string {
	specs := toolSpecs()
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.name)
	}
	return names
}
