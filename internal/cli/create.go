package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/itechmeat/start-vibe-project/internal/agent"
	"github.com/itechmeat/start-vibe-project/internal/assets"
	"github.com/itechmeat/start-vibe-project/internal/clock"
	"github.com/itechmeat/start-vibe-project/internal/config"
	"github.com/itechmeat/start-vibe-project/internal/constants"
	"github.com/itechmeat/start-vibe-project/internal/contracts"
	"github.com/itechmeat/start-vibe-project/internal/domain"
	"github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/filesystem"
	"github.com/itechmeat/start-vibe-project/internal/flock"
	"github.com/itechmeat/start-vibe-project/internal/preflight"
	"github.com/itechmeat/start-vibe-project/internal/progress"
	"github.com/itechmeat/start-vibe-project/internal/project"
	"github.com/itechmeat/start-vibe-project/internal/retry"
	"github.com/itechmeat/start-vibe-project/internal/shell"
	"github.com/itechmeat/start-vibe-project/internal/skills"
	"github.com/itechmeat/start-vibe-project/internal/tui"
)

// createOptions contains all options for the create command.
type createOptions struct {
	template      string
	description   string
	frontend      string
	backend       string
	database      string
	auth          bool
	aiTool        string
	simpleMem     bool
	reliefPilot   bool
	yes           bool
	noGit         bool
	noCompanion   bool
	skipPreflight bool
}

// projectConfig builds the run configuration. A component is enabled
// exactly when its stack flag is given.
func (o *createOptions) projectConfig(name string) domain.ProjectConfig {
	return domain.ProjectConfig{
		Name:        name,
		Template:    o.template,
		Description: o.description,
		Components: domain.Components{
			Frontend: o.frontend != "",
			Backend:  o.backend != "",
			Database: o.database != "",
			Auth:     o.auth,
		},
		FrontendStack:  o.frontend,
		BackendStack:   o.backend,
		DatabaseStack:  o.database,
		AITool:         o.aiTool,
		UseSimpleMem:   o.simpleMem,
		UseReliefPilot: o.reliefPilot,
	}
}

// createEnv holds the process-level collaborators of a create run.
type createEnv struct {
	cwd         string
	out         io.Writer
	interactive bool
	shell       shell.Shell
	executor    preflight.Executor
	confirm     func(ctx context.Context, title string) (bool, error)
	clock       clock.Clock
}

// defaultCreateEnv reads the working directory and terminal state.
func defaultCreateEnv(cmd *cobra.Command) (createEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return createEnv{}, errors.FileSystem("Failed to resolve working directory", ".", err)
	}
	return createEnv{
		cwd:         cwd,
		out:         cmd.OutOrStdout(),
		interactive: tui.IsTerminal(os.Stdin) && tui.IsTerminal(os.Stdout),
		executor:    preflight.ExecExecutor{},
		confirm: func(ctx context.Context, title string) (bool, error) {
			return tui.Confirm(ctx, title, true)
		},
		clock: clock.RealClock{},
	}, nil
}

// AddCreateCommand adds the create command to the root command.
func AddCreateCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newCreateCmd(flags, defaultCreateEnv))
}

func newCreateCmd(flags *GlobalFlags, envFn func(*cobra.Command) (createEnv, error)) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create <project-name>",
		Short: "Create a new project",
		Long: `Create a new project directory with planning documents, agent files
and skills for the selected AI tool.

A component is included when its stack is given:
  --frontend react-vite|nextjs|vue|nuxtjs|other
  --backend  fastapi|django|flask|express|nestjs|other
  --database postgresql|mysql|mongodb|turso|other`,
		Example: `  start-vibe-project create my-app --frontend react-vite --backend fastapi --database postgresql --auth
  start-vibe-project create my-api --template api-service --backend nestjs --ai-tool github-copilot --relief-pilot -y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := envFn(cmd)
			if err != nil {
				return err
			}
			return runCreate(cmd.Context(), flags, env, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.template, "template", "t", domain.TemplateWebApp, "project template (web-app|mobile-app|api-service)")
	f.StringVarP(&opts.description, "description", "d", "", "short project description")
	f.StringVar(&opts.frontend, "frontend", "", "frontend stack; enables the frontend component")
	f.StringVar(&opts.backend, "backend", "", "backend stack; enables the backend component")
	f.StringVar(&opts.database, "database", "", "database; enables the database component")
	f.BoolVar(&opts.auth, "auth", false, "include authentication")
	f.StringVar(&opts.aiTool, "ai-tool", "claude-code", "target AI coding agent (see 'start-vibe-project agents')")
	f.BoolVar(&opts.simpleMem, "simplemem", false, "keep SimpleMem long-term memory instructions")
	f.BoolVar(&opts.reliefPilot, "relief-pilot", false, "use Relief Pilot instructions (github-copilot only)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	f.BoolVar(&opts.noGit, "no-git", false, "skip git init and the initial commit")
	f.BoolVar(&opts.noCompanion, "no-companion", false, "skip the global companion-tool install")
	f.BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip the node/npm/npx/git check")

	return cmd
}

func runCreate(ctx context.Context, flags *GlobalFlags, env createEnv, name string, opts *createOptions) error {
	logger := loggerFrom(ctx).With().Str("project", name).Logger()
	cfg := *configFrom(ctx)
	if opts.noGit {
		cfg.Git.Enabled = false
	}
	if opts.noCompanion {
		cfg.Companion.Enabled = false
	}

	printer := tui.NewPrinter(env.out)
	if !flags.Quiet {
		printer.Intro()
	}

	pcfg := opts.projectConfig(name)
	if err := pcfg.Validate(); err != nil {
		return err
	}
	if pcfg.UseReliefPilot && pcfg.AITool != constants.CopilotAgent {
		logger.Debug().Str("ai_tool", pcfg.AITool).Msg("relief-pilot only applies to github-copilot")
	}

	ag, err := agent.Default().Lookup(pcfg.AITool)
	if err != nil {
		return err
	}

	progressDir := config.ProgressDir(&cfg, env.cwd)
	lock, err := flock.Acquire(progressDir, name)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			logger.Warn().Err(releaseErr).Msg("failed to release run lock")
		}
	}()

	progressFS := filesystem.NewOS(progressDir)
	progressPath := filepath.Join(progressDir, name+".json")
	diagnosePreviousRun(printer, progressFS, progressPath, logger)

	targetDir := filepath.Join(env.cwd, name)
	if filesystem.NewOS("").Exists(targetDir) {
		return errors.Validation(fmt.Sprintf("Directory %q already exists", name)).
			WithContext("path", targetDir)
	}

	if !opts.skipPreflight {
		runPreflight(ctx, printer, env.executor, logger)
	}

	if !flags.Quiet {
		printer.Summary(pcfg, ag.DisplayName)
	}

	if !opts.yes && env.interactive {
		ok, confirmErr := env.confirm(ctx, "Create project?")
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			printer.Cancelled()
			return nil
		}
	}

	orch := buildOrchestrator(&cfg, flags, env, targetDir, progressFS, progressPath, logger)
	if err := orch.Create(ctx, project.Input{Config: pcfg, TargetDir: targetDir, Agent: ag}); err != nil {
		return err
	}

	if err := progressFS.Remove(progressPath); err != nil {
		logger.Warn().Err(err).Str("path", progressPath).Msg("failed to remove progress file")
	}

	printer.Success(name, ag.DisplayName)
	return nil
}

// buildOrchestrator wires the pipeline from configuration.
func buildOrchestrator(cfg *config.Config, flags *GlobalFlags, env createEnv, targetDir string,
	progressFS filesystem.FileSystem, progressPath string, logger zerolog.Logger,
) *project.Orchestrator {
	clk := env.clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	sh := env.shell
	if sh == nil {
		sh = shell.NewRunner(logger, cfg.Shell.Timeout)
	}

	var spinner contracts.Spinner = tui.NoopSpinner{}
	if !flags.Quiet {
		spinner = tui.NewSpinner(env.out, env.interactive)
	}

	projectFS := filesystem.NewOS(targetDir)
	loader := assets.NewLoader(filesystem.NewOS(""), assets.WithRoot(cfg.Assets.Root))

	breaker := retry.NewBreaker(retry.BreakerConfig{
		FailureThreshold: cfg.Skills.Breaker.FailureThreshold,
		ResetTimeout:     cfg.Skills.Breaker.ResetTimeout,
		HalfOpenMaxCalls: cfg.Skills.Breaker.HalfOpenMaxCalls,
	}, clk)

	installer := skills.NewInstaller(projectFS, sh, loader, spinner, logger, skills.Options{
		Command: cfg.Skills.Command,
		Timeout: cfg.Skills.Timeout,
		Retry: retry.Config{
			MaxAttempts:  cfg.Skills.Retry.MaxAttempts,
			InitialDelay: cfg.Skills.Retry.InitialDelay,
			MaxDelay:     cfg.Skills.Retry.MaxDelay,
			Multiplier:   cfg.Skills.Retry.Multiplier,
			Jitter:       constants.BackoffJitter,
		},
		Breaker: breaker,
		Clock:   clk,
	})

	return project.New(project.Deps{
		FS:       projectFS,
		Assets:   loader,
		Data:     loader,
		Shell:    sh,
		Skills:   installer,
		Spinner:  spinner,
		Progress: progress.NewTracker(progressFS, progressPath, clk, logger),
		Clock:    clk,
		Logger:   logger,
	}, project.Options{
		CompanionEnabled: cfg.Companion.Enabled,
		CompanionPackage: cfg.Companion.Package,
		CompanionTimeout: cfg.Companion.Timeout,
		GitEnabled:       cfg.Git.Enabled,
		CommitMessage:    cfg.Git.CommitMessage,
	})
}

// diagnosePreviousRun warns about an unfinished earlier run of the same
// project. A missing or unreadable progress file is not reported.
func diagnosePreviousRun(printer *tui.Printer, fs filesystem.FileSystem, path string, logger zerolog.Logger) {
	if !fs.Exists(path) {
		return
	}
	state, err := progress.Load(fs, path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("ignoring unreadable progress file")
		return
	}
	if state.Status == progress.StatusCompleted {
		return
	}

	msg := fmt.Sprintf("A previous run ended with status %q", state.Status)
	if state.LastStep != "" {
		msg += fmt.Sprintf(" at step %q", state.LastStep)
	}
	if ts, tsErr := state.UpdatedAtTime(); tsErr == nil {
		msg += " (" + ts.UTC().Format(time.DateTime) + " UTC)"
	} else if state.UpdatedAt != "" {
		msg += " (" + state.UpdatedAt + ")"
	}
	if state.Error != "" {
		msg += ": " + state.Error
	}
	printer.Warning(msg)
	logger.Warn().
		Str("status", string(state.Status)).
		Str("last_step", state.LastStep).
		Msg("previous run did not complete")
}

// runPreflight warns about missing or outdated tools without failing.
func runPreflight(ctx context.Context, printer *tui.Printer, executor preflight.Executor, logger zerolog.Logger) {
	report, err := preflight.NewDetector(executor).Detect(ctx)
	if err != nil {
		if !stderrors.Is(err, errors.ErrOperationCancelled) {
			logger.Debug().Err(err).Msg("tool detection failed")
		}
		return
	}
	for _, t := range report.Problems() {
		if t.Status == preflight.StatusOutdated {
			printer.Warning(fmt.Sprintf("%s %s is older than %s. %s", t.Name, t.CurrentVersion, t.MinVersion, t.InstallHint))
			continue
		}
		printer.Warning(fmt.Sprintf("%s not found. %s", t.Name, t.InstallHint))
	}
}
