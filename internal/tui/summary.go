package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/itechmeat/start-vibe-project/internal/domain"
	"github.com/itechmeat/start-vibe-project/internal/preflight"
)

const ruleWidth = 50

// Printer writes styled CLI output.
type Printer struct {
	w      io.Writer
	styles *OutputStyles
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: NewOutputStyles()}
}

func (p *Printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) rule() {
	p.line("%s", p.styles.Dim.Render(strings.Repeat("─", ruleWidth)))
}

// Intro prints the application banner.
func (p *Printer) Intro() {
	p.line("")
	p.line("%s", p.styles.Banner.Render("start-vibe-project"))
	p.line("")
}

// Summary prints the project about to be created.
func (p *Printer) Summary(cfg domain.ProjectConfig, agentDisplayName string) {
	templateName := cfg.Template
	if t, ok := domain.FindTemplate(cfg.Template); ok {
		templateName = t.Name
	}

	p.rule()
	p.line("%s", StyleBold.Render("Project Summary:"))
	p.field("Name", cfg.Name)
	p.field("Template", templateName)
	if cfg.Description != "" {
		p.field("Description", cfg.Description)
	}
	p.field("AI Tool", agentDisplayName)

	if cfg.Components.Frontend && cfg.FrontendStack != "" {
		p.field("Frontend", domain.StackName(domain.FrontendStacks(), cfg.FrontendStack))
	}
	if cfg.Components.Backend && cfg.BackendStack != "" {
		p.field("Backend", domain.StackName(domain.BackendStacks(), cfg.BackendStack))
	}
	if cfg.Components.Database && cfg.DatabaseStack != "" {
		p.field("Database", domain.StackName(domain.DatabaseStacks(), cfg.DatabaseStack))
	}
	if cfg.Components.Auth {
		p.field("Auth", "Yes")
	}
	p.rule()
	p.line("")
}

func (p *Printer) field(label, value string) {
	p.line("  %s: %s", label, p.styles.Value.Render(value))
}

// Success prints the completion message and the next steps.
func (p *Printer) Success(projectName, agentDisplayName string) {
	p.line("%s", p.styles.Success.Render("✓ Installation completed successfully! 🎉"))
	p.line("")
	p.line("%s", StyleBold.Render("Next steps:"))
	p.line("  1. %s", p.styles.Value.Render(fmt.Sprintf("cd %q", projectName)))
	p.line("  2. Open the project in %s", p.styles.Value.Render(agentDisplayName))
	p.line("  3. Select the %s agent", p.styles.Value.Render("creator"))
	p.line("  4. Ask the agent to %s", p.styles.Value.Render("continue project setup"))
	p.line("  5. Follow the agent's instructions to complete documentation")
	p.line("")
	p.line("%s", p.styles.Info.Bold(true).Render("Happy coding! 🚀"))
}

// Warning prints a non-fatal problem.
func (p *Printer) Warning(msg string) {
	p.line("%s", p.styles.Warning.Render("⚠ "+msg))
}

// Error prints a failure.
func (p *Printer) Error(msg string) {
	p.line("%s", p.styles.Error.Render("✗ "+msg))
}

// Cancelled prints the interruption notice.
func (p *Printer) Cancelled() {
	p.line("%s", p.styles.Warning.Render("Operation cancelled"))
}

// Progress prints a skill-installer progress line.
func (p *Printer) Progress(msg string) {
	p.line("%s", p.styles.Dim.Render(msg))
}

// Tools prints a preflight report as an aligned table.
func (p *Printer) Tools(report preflight.Report) {
	nameWidth := 0
	for _, t := range report.Tools {
		nameWidth = max(nameWidth, len(t.Name))
	}

	for _, t := range report.Tools {
		name := t.Name + strings.Repeat(" ", nameWidth-len(t.Name))
		switch t.Status {
		case preflight.StatusInstalled:
			p.line("  %s %s %s", p.styles.Success.Render("✓"), name, p.styles.Dim.Render(t.CurrentVersion))
		case preflight.StatusOutdated:
			p.line("  %s %s %s %s", p.styles.Warning.Render("⚠"), name, t.CurrentVersion,
				p.styles.Warning.Render(fmt.Sprintf("(needs %s+)", t.MinVersion)))
			p.line("    %s", p.styles.Dim.Render(t.InstallHint))
		default:
			p.line("  %s %s %s", p.styles.Error.Render("✗"), name, p.styles.Error.Render("not found"))
			p.line("    %s", p.styles.Dim.Render(t.InstallHint))
		}
	}
}
