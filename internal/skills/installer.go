package skills

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
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
	"github.com/itechmeat/start-vibe-project/internal/result"
	"github.com/itechmeat/start-vibe-project/internal/retry"
	"github.com/itechmeat/start-vibe-project/internal/shell"
)

// Options configures an Installer. Zero values fall back to defaults.
type Options struct {
	// Command launches the skills-installer CLI.
	Command string
	// Timeout bounds one source install.
	Timeout time.Duration
	// Retry is applied per source.
	Retry retry.Config
	// Breaker guards the attempts of one source. It is reset before each
	// source so a failing source never blocks the next. Nil creates one
	// with retry.DefaultBreakerConfig.
	Breaker *retry.Breaker
	// Clock stamps the checksum manifest.
	Clock clock.Clock
}

// Installer installs registry skills for a project.
type Installer struct {
	fs       filesystem.FileSystem
	shell    shell.Shell
	data     DataLoader
	spinner  contracts.Spinner
	verifier *Verifier
	logger   zerolog.Logger
	opts     Options
}

// Compile-time interface check.
var _ contracts.SkillInstaller = (*Installer)(nil)

// NewInstaller creates an Installer.
func NewInstaller(fs filesystem.FileSystem, sh shell.Shell, data DataLoader, spinner contracts.Spinner, logger zerolog.Logger, opts Options) *Installer {
	if opts.Command == "" {
		opts.Command = constants.SkillsCommand
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.SkillInstallTimeout
	}
	if opts.Retry.MaxAttempts < 1 {
		opts.Retry = retry.DefaultConfig()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Breaker == nil {
		opts.Breaker = retry.NewBreaker(retry.DefaultBreakerConfig(), opts.Clock)
	}
	return &Installer{
		fs:       fs,
		shell:    sh,
		data:     data,
		spinner:  spinner,
		verifier: NewVerifier(fs, opts.Clock, logger),
		logger:   logger,
		opts:     opts,
	}
}

// Install loads the registry, installs every planned source into targetDir
// and verifies checksums of the agent's skills directory.
//
// A failing source does not stop the others. When any source failed the
// result is a SkillInstall error naming all of them, and checksums are not
// recorded. Cancellation stops before the next source.
func (i *Installer) Install(ctx context.Context, cfg domain.ProjectConfig, ag agent.Config, targetDir string, onProgress contracts.ProgressFunc) error {
	i.logger.Info().Str("target_dir", targetDir).Msg("loading skill registry")

	reg, err := LoadRegistry(i.data, i.logger)
	if err != nil {
		return err
	}

	tags := SelectedTags(cfg)
	i.logger.Info().Strs("tags", tags.Sorted()).Msg("selected skill tags")

	plan := BuildPlan(reg, tags)
	if len(plan) == 0 {
		return svperrors.SkillInstall("No skills selected for installation from start_skills registry", "unknown")
	}

	outcomes := make([]result.Result[string], 0, len(plan))
	for _, src := range plan {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		err := i.installSource(ctx, cfg.AITool, src, targetDir, onProgress)
		if err != nil && ctx.Err() != nil {
			return ctxutil.Canceled(ctx)
		}
		outcomes = append(outcomes, result.Of(src.Label, err))
	}

	installed, _ := result.Collect(outcomes)
	i.logger.Info().Int("installed", len(installed)).Int("planned", len(plan)).Msg("skill sources processed")

	if failed := failedLabels(plan, outcomes); len(failed) > 0 {
		return svperrors.SkillInstall(
			"Failed to install skills from sources: "+strings.Join(failed, ", "),
			"multiple-sources",
		).WithContext("sources", failed)
	}

	i.verifier.Verify(ctx, filepath.Join(targetDir, ag.SkillsDir))
	return nil
}

func (i *Installer) installSource(ctx context.Context, aiTool string, src SourcePlan, targetDir string, onProgress contracts.ProgressFunc) error {
	args := src.Args(aiTool)
	cmdline := shell.FormatCommand(i.opts.Command, args)
	message := "Installing skills from " + src.Label

	handle := i.spinner.Start(ctx, message)
	onProgress.Notify(message, contracts.ProgressStart)
	i.logger.Info().Str("source", src.Label).Str("command", cmdline).Msg("installing skills")
	i.opts.Breaker.Reset()

	op := &retry.SimpleOperation[shell.Output]{
		AttemptFunc: func(ctx context.Context, _ int) (shell.Output, error) {
			var out shell.Output
			err := i.opts.Breaker.Call(func() error {
				var runErr error
				out, runErr = i.shell.Run(ctx, i.opts.Command, args, targetDir, shell.Options{Timeout: i.opts.Timeout})
				return runErr
			})
			return out, err
		},
		ShouldRetryFunc: retryable,
		OnRetryWaitFunc: func(attempt int, delay time.Duration, err error) {
			i.logger.Warn().
				Err(err).
				Str("source", src.Label).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("skill install failed, retrying")
		},
	}

	_, attempts, err := retry.Execute(ctx, i.opts.Retry, op, i.logger)
	if err == nil {
		handle.Stop("✓ " + message)
		onProgress.Notify(message, contracts.ProgressSuccess)
		i.logger.Info().Str("source", src.Label).Int("attempts", attempts).Msg("skills installed successfully")
		return nil
	}

	handle.Stop("✖ " + message)
	i.logger.Error().
		Err(err).
		Str("source", src.Label).
		Int("attempts", attempts).
		Msg("failed to install skills")
	onProgress.Notify(recoveryHint(src.Label, cmdline, err), contracts.ProgressError)
	return err
}

// failedLabels returns the labels of the sources whose outcome failed, in
// plan order.
func failedLabels(plan []SourcePlan, outcomes []result.Result[string]) []string {
	var failed []string
	for idx, r := range outcomes {
		if r.IsErr() {
			failed = append(failed, plan[idx].Label)
		}
	}
	return failed
}

// retryable rejects failures that another attempt cannot fix.
func retryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, svperrors.ErrOperationCancelled),
		errors.Is(err, svperrors.ErrCircuitOpen):
		return false
	}
	var e *svperrors.Error
	if errors.As(err, &e) && e.Message == "Invalid working directory" {
		return false
	}
	return true
}

// recoveryHint tells the operator how to finish a failed install by hand.
func recoveryHint(label, cmdline string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Could not install %s.", label)

	var e *svperrors.Error
	if errors.As(err, &e) {
		if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
			b.WriteString("\n")
			b.WriteString(stderr)
		}
	}
	fmt.Fprintf(&b, "\nRun manually: %s", cmdline)
	return b.String()
}
