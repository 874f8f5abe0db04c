// Package contracts defines the ports shared by the creation pipeline and its
// adapters, kept here to avoid circular imports between internal/project,
// internal/skills and internal/tui.
//
// Import rules:
//   - CAN import: internal/domain, internal/agent, standard library
//   - MUST NOT import: adapters (filesystem, shell, tui, skills, project)
package contracts

import (
	"context"

	"github.com/itechmeat/start-vibe-project/internal/agent"
	"github.com/itechmeat/start-vibe-project/internal/domain"
)

// Spinner shows a transient activity indicator for a long-running step.
// Implemented by tui.TerminalSpinner and tui.NoopSpinner.
type Spinner interface {
	Start(ctx context.Context, message string) SpinnerHandle
}

// SpinnerHandle stops a running spinner, replacing it with a final line.
type SpinnerHandle interface {
	Stop(message string)
}

// ProgressStatus tags a progress notification.
type ProgressStatus string

// Progress statuses.
const (
	ProgressStart   ProgressStatus = "start"
	ProgressSuccess ProgressStatus = "success"
	ProgressError   ProgressStatus = "error"
)

// ProgressFunc receives human-readable progress messages. It may be nil.
type ProgressFunc func(message string, status ProgressStatus)

// Notify calls f when it is set.
func (f ProgressFunc) Notify(message string, status ProgressStatus) {
	if f != nil {
		f(message, status)
	}
}

// SkillInstaller installs the skills selected for a project into targetDir
// and records their checksums. Implemented by skills.Installer.
type SkillInstaller interface {
	Install(ctx context.Context, cfg domain.ProjectConfig, ag agent.Config, targetDir string, onProgress ProgressFunc) error
}
