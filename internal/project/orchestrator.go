// Package project runs the project-creation pipeline: directories, planning
// documents, agent files, skill installation and the best-effort finalize
// steps.
//
// The pipeline is linear. Each step either succeeds and advances or returns
// the first fatal error; files already written are left in place. Finalize
// failures (companion-tool install, git) are logged as warnings.
package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/itechmeat/start-vibe-project/internal/agent"
	"github.com/itechmeat/start-vibe-project/internal/clock"
	"github.com/itechmeat/start-vibe-project/internal/constants"
	"github.com/itechmeat/start-vibe-project/internal/contracts"
	"github.com/itechmeat/start-vibe-project/internal/ctxutil"
	"github.com/itechmeat/start-vibe-project/internal/domain"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
	"github.com/itechmeat/start-vibe-project/internal/pathsafe"
	"github.com/itechmeat/start-vibe-project/internal/progress"
	"github.com/itechmeat/start-vibe-project/internal/shell"
	"github.com/itechmeat/start-vibe-project/internal/skills"
)

// Assets loads packaged templates and verbatim file assets.
// Implemented by assets.Loader.
type Assets interface {
	LoadTemplate(logicalPath string) (string, error)
	LoadFileAsset(logicalPath string) (string, error)
}

// Deps are the collaborators of an Orchestrator. Logger is expected to
// carry the project name already.
type Deps struct {
	FS       filesystem.FileSystem
	Assets   Assets
	Data     skills.DataLoader
	Shell    shell.Shell
	Skills   contracts.SkillInstaller
	Spinner  contracts.Spinner
	Progress progress.Recorder
	Clock    clock.Clock
	Logger   zerolog.Logger
}

// Options tune the finalize phase.
type Options struct {
	CompanionEnabled bool
	CompanionPackage string
	CompanionTimeout time.Duration
	GitEnabled       bool
	CommitMessage    string
}

// DefaultOptions enables every finalize step with the built-in settings.
func DefaultOptions() Options {
	return Options{
		CompanionEnabled: true,
		CompanionPackage: constants.CompanionPackage,
		CompanionTimeout: constants.CompanionInstallTimeout,
		GitEnabled:       true,
		CommitMessage:    constants.InitialCommitMessage,
	}
}

// Input describes one run.
type Input struct {
	Config domain.ProjectConfig
	// TargetDir is the absolute project root. It must not exist yet.
	TargetDir string
	Agent     agent.Config
}

// Orchestrator creates projects.
type Orchestrator struct {
	deps Deps
	opts Options
}

// New creates an Orchestrator.
func New(deps Deps, opts Options) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if opts.CompanionPackage == "" {
		opts.CompanionPackage = constants.CompanionPackage
	}
	if opts.CompanionTimeout <= 0 {
		opts.CompanionTimeout = constants.CompanionInstallTimeout
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = constants.InitialCommitMessage
	}
	return &Orchestrator{deps: deps, opts: opts}
}

// Create runs the pipeline for in. The progress recorder ends in completed,
// cancelled or error state to match the returned error.
func (o *Orchestrator) Create(ctx context.Context, in Input) (err error) {
	log := o.deps.Logger

	defer func() {
		if r := recover(); r != nil {
			err = svperrors.Internal(fmt.Sprintf("Failed to create project: %v", r), nil)
			log.Error().Interface("panic", r).Msg("project creation panicked")
		}
		switch {
		case err == nil:
			o.deps.Progress.MarkCompleted()
			log.Info().Msg("project creation completed")
		case errors.Is(err, svperrors.ErrOperationCancelled):
			o.deps.Progress.MarkCancelled()
			log.Warn().Msg("project creation cancelled")
		default:
			o.deps.Progress.MarkError(err)
			log.Error().Err(err).Msg("project creation failed")
		}
	}()

	log.Info().Str("template", in.Config.Template).Str("ai_tool", in.Config.AITool).
		Msg("starting project creation")

	stages := []func(context.Context, Input) error{
		o.createDirectories,
		o.writeProjectFiles,
		o.installSkills,
	}
	for _, stage := range stages {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		if err := stage(ctx, in); err != nil {
			return err
		}
	}
	return o.finalize(ctx, in)
}

func (o *Orchestrator) createDirectories(_ context.Context, in Input) error {
	o.deps.Progress.RecordStep(StepCreateProjectDir)
	if err := o.deps.FS.Mkdir(in.TargetDir, false); err != nil {
		return stepFailed("Create project directory", err)
	}

	o.deps.Progress.RecordStep(StepCreateProjectStructure)
	if err := o.deps.FS.Mkdir(filepath.Join(in.TargetDir, constants.ProjectMetaDir, constants.StoriesDir), true); err != nil {
		return stepFailed("Create project structure", err)
	}

	o.deps.Progress.RecordStep(StepCreateAgentDirs)
	skillsDir := filepath.Join(in.TargetDir, in.Agent.SkillsDir)
	agentsDir := filepath.Join(in.TargetDir, in.Agent.AgentsDir)
	for _, dir := range []string{skillsDir, agentsDir} {
		if err := pathsafe.AssertWithin(in.TargetDir, dir); err != nil {
			return stepFailed("Create agent directories", err)
		}
	}
	if err := o.deps.FS.Mkdir(skillsDir, true); err != nil {
		return stepFailed("Create skills directory", err)
	}
	if err := o.deps.FS.Mkdir(agentsDir, true); err != nil {
		return stepFailed("Create agents directory", err)
	}
	return nil
}

// projectFile is one document produced by writeProjectFiles.
type projectFile struct {
	operation string
	path      string
	content   func() (string, error)
}

func (o *Orchestrator) writeProjectFiles(ctx context.Context, in Input) error {
	o.deps.Progress.RecordStep(StepWriteProjectFiles)

	cfg := in.Config
	meta := filepath.Join(in.TargetDir, constants.ProjectMetaDir)
	files := []projectFile{
		{"Write INIT.md", filepath.Join(meta, "INIT.md"), func() (string, error) { return o.initDocument(in) }},
		{"Write about.md", filepath.Join(meta, "about.md"), func() (string, error) { return AboutMD(cfg) }},
		{"Write specs.md", filepath.Join(meta, "specs.md"), func() (string, error) { return SpecsMD(cfg) }},
		{"Write architecture.md", filepath.Join(meta, "architecture.md"), func() (string, error) { return ArchitectureMD(cfg) }},
		{"Write project-context.md", filepath.Join(meta, "project-context.md"), constant(ProjectContextMD)},
		{"Write stories.md", filepath.Join(meta, constants.StoriesDir, "stories.md"), constant(StoriesMD(cfg))},
		{"Write AGENTS.md", filepath.Join(in.TargetDir, "AGENTS.md"), func() (string, error) { return o.agentsDocument(cfg) }},
		{"Write creator agent", filepath.Join(in.TargetDir, in.Agent.AgentsDir, "creator.md"), func() (string, error) { return o.creatorDocument(in) }},
		{"Write .editorconfig", filepath.Join(in.TargetDir, ".editorconfig"), func() (string, error) {
			return loadAsset(o.deps.Assets.LoadFileAsset, editorConfigAsset, ".editorconfig template")
		}},
	}
	if err := o.writeAll(ctx, files); err != nil {
		return err
	}

	if cfg.AITool == constants.CopilotAgent {
		if err := o.writeCopilotFiles(ctx, in); err != nil {
			return err
		}
	}

	return o.writeAll(ctx, []projectFile{
		{"Write .gitignore", filepath.Join(in.TargetDir, ".gitignore"), constant(Gitignore)},
	})
}

func (o *Orchestrator) writeCopilotFiles(ctx context.Context, in Input) error {
	github := filepath.Join(in.TargetDir, ".github")
	if err := o.deps.FS.Mkdir(filepath.Join(github, "instructions"), true); err != nil {
		return stepFailed("Create .github directories", err)
	}

	files := []projectFile{
		{"Write copilot-instructions.md", filepath.Join(github, "copilot-instructions.md"), func() (string, error) {
			content, err := loadAsset(o.deps.Assets.LoadFileAsset, copilotAsset, "copilot-instructions.md template")
			if err != nil || in.Config.UseReliefPilot {
				return content, err
			}
			return StripReliefPilot(content), nil
		}},
	}
	if in.Config.UseReliefPilot {
		files = append(files, projectFile{
			"Write relief-pilot instructions",
			filepath.Join(github, "instructions", "relief-pilot.instructions.md"),
			func() (string, error) {
				return loadAsset(o.deps.Assets.LoadFileAsset, reliefPilotAsset, "relief-pilot instructions template")
			},
		})
	}
	return o.writeAll(ctx, files)
}

// writeAll produces and writes files in order, stopping at the first failure.
// Content errors are returned as is; write errors are wrapped with the
// operation name.
func (o *Orchestrator) writeAll(ctx context.Context, files []projectFile) error {
	for _, f := range files {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		content, err := f.content()
		if err != nil {
			return err
		}
		if err := o.deps.FS.WriteFile(f.path, content); err != nil {
			return stepFailed(f.operation, err)
		}
		o.deps.Logger.Debug().Str("path", f.path).Msg("wrote project file")
	}
	return nil
}

func (o *Orchestrator) initDocument(in Input) (string, error) {
	tmpl, err := loadAsset(o.deps.Assets.LoadTemplate, initTemplate, "INIT.md template")
	if err != nil {
		return "", err
	}

	var repos []string
	if reg, regErr := skills.LoadRegistry(o.deps.Data, o.deps.Logger); regErr != nil {
		o.deps.Logger.Warn().Err(regErr).Msg("skill registry unavailable, INIT.md lists no priority repos")
	} else {
		repos = reg.PriorityRepos
	}

	values, err := InitValues(in.Config, in.Agent.SkillsDir, o.deps.Clock.Now().Format(time.DateOnly), repos)
	if err != nil {
		return "", err
	}
	return Render(tmpl, initTemplate, values)
}

func (o *Orchestrator) agentsDocument(cfg domain.ProjectConfig) (string, error) {
	content, err := loadAsset(o.deps.Assets.LoadFileAsset, agentsMDAsset, "AGENTS.md template")
	if err != nil {
		return "", err
	}
	if cfg.UseSimpleMem {
		return content, nil
	}
	return StripSimpleMem(content), nil
}

func (o *Orchestrator) creatorDocument(in Input) (string, error) {
	tmpl, err := loadAsset(o.deps.Assets.LoadTemplate, creatorTemplate, "creator agent template")
	if err != nil {
		return "", err
	}
	content, err := Render(tmpl, creatorTemplate, map[string]string{
		"aiTool":    in.Config.AITool,
		"skillsDir": in.Agent.SkillsDir,
	})
	if err != nil {
		return "", err
	}
	if !in.Config.UseReliefPilot {
		return content, nil
	}

	tools, err := o.deps.Assets.LoadTemplate(creatorToolsTemplate)
	if err != nil {
		o.deps.Logger.Warn().Err(err).Msg("creator tools block unavailable, writing creator agent without it")
		return content, nil
	}
	return ApplyCreatorTools(content, tools), nil
}

func (o *Orchestrator) installSkills(ctx context.Context, in Input) error {
	o.deps.Progress.RecordStep(StepInstallSkills)

	err := o.deps.Skills.Install(ctx, in.Config, in.Agent, in.TargetDir, func(message string, status contracts.ProgressStatus) {
		if status == contracts.ProgressError {
			o.deps.Logger.Error().Msg(message)
			return
		}
		o.deps.Logger.Info().Msg(message)
	})
	if err != nil {
		if errors.Is(err, svperrors.ErrOperationCancelled) {
			return err
		}
		return wrapFailure("Skill installation failed: ", err)
	}

	o.deps.Progress.RecordStep(StepInstallSkillsComplete)
	return nil
}

// finalize runs the best-effort steps. Only cancellation fails it.
func (o *Orchestrator) finalize(ctx context.Context, in Input) error {
	handle := o.deps.Spinner.Start(ctx, finalizeStartMessage)
	stopped := false
	defer func() {
		if !stopped {
			handle.Stop("")
		}
	}()

	if o.opts.CompanionEnabled {
		o.deps.Progress.RecordStep(StepInstallOpenSpec)
		_, err := o.deps.Shell.Run(ctx, "npm", []string{"install", "-g", o.opts.CompanionPackage}, in.TargetDir,
			shell.Options{Timeout: o.opts.CompanionTimeout})
		if err != nil {
			if cancelled := ctxutil.Canceled(ctx); cancelled != nil {
				return cancelled
			}
			o.deps.Logger.Warn().Err(err).Str("package", o.opts.CompanionPackage).
				Msg("failed to install companion tool globally")
		}
	}

	if o.opts.GitEnabled {
		if err := o.initRepository(ctx, in.TargetDir); err != nil {
			return err
		}
	}

	handle.Stop(finalizeSuccessMessage)
	stopped = true
	return nil
}

// initRepository runs git init and the initial commit. Failures are
// warnings; only cancellation is returned.
func (o *Orchestrator) initRepository(ctx context.Context, dir string) error {
	git := func(args ...string) error {
		_, err := o.deps.Shell.Run(ctx, "git", args, dir, shell.Options{})
		return err
	}

	o.deps.Progress.RecordStep(StepGitInit)
	if err := git("init"); err != nil {
		if cancelled := ctxutil.Canceled(ctx); cancelled != nil {
			return cancelled
		}
		o.deps.Logger.Warn().Err(err).Msg("failed to initialize git repository")
		return nil
	}

	o.deps.Progress.RecordStep(StepGitInitialCommit)
	if err := git("add", "."); err != nil {
		if cancelled := ctxutil.Canceled(ctx); cancelled != nil {
			return cancelled
		}
		o.deps.Logger.Warn().Err(err).Msg("failed to stage files for commit")
		return nil
	}
	if err := git("commit", "-m", o.opts.CommitMessage); err != nil {
		if cancelled := ctxutil.Canceled(ctx); cancelled != nil {
			return cancelled
		}
		o.deps.Logger.Warn().Err(err).Msg("failed to create initial commit")
	}
	return nil
}

// loadAsset wraps a loader failure as "Failed to load <what>: <msg>".
func loadAsset(load func(string) (string, error), logicalPath, what string) (string, error) {
	content, err := load(logicalPath)
	if err != nil {
		return "", wrapFailure("Failed to load "+what+": ", err).WithContext("templatePath", logicalPath)
	}
	return content, nil
}

func constant(content string) func() (string, error) {
	return func() (string, error) { return content, nil }
}

// stepFailed wraps err as "<operation> failed: <msg>".
func stepFailed(operation string, err error) error {
	return wrapFailure(operation+" failed: ", err).WithContext("operation", operation)
}

// wrapFailure prefixes err's message, keeping its kind, path, command and
// cause.
func wrapFailure(prefix string, err error) *svperrors.Error {
	n := svperrors.Normalize(err)
	wrapped := svperrors.NewError(n.Kind, prefix+n.Error()).WithCause(err)
	wrapped.Path = n.Path
	wrapped.Command = n.Command
	wrapped.Stderr = n.Stderr
	for k, v := range n.Context {
		wrapped.WithContext(k, v)
	}
	return wrapped
}
