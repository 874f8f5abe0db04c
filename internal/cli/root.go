// Package cli provides the command-line interface for start-vibe-project.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/itechmeat/start-vibe-project/internal/config"
	"github.com/itechmeat/start-vibe-project/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

type configKey struct{}

// withConfig stores cfg in ctx for subcommands.
func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns the config stored by PersistentPreRunE, or the defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

// newRootCmd creates the root command. Subcommands read the loaded config
// and the logger from their command context.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-vibe-project",
		Short: "Initialize a new project with an AI-first documentation structure",
		Long: `start-vibe-project scaffolds a project for AI coding agents:

  • planning documents (.project/about.md, specs.md, architecture.md, stories)
  • agent instructions and the creator agent for your AI tool
  • curated skills installed with the skills CLI
  • a companion spec tool and an initial git commit`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.Load(ctx, flags.ConfigFile, globalBindings(cmd)...)
			if err != nil {
				return err
			}

			tui.CheckNoColor()

			logger := InitLogger(loggerOptions{
				Level:   cfg.Log.Level,
				Verbose: flags.Verbose,
				Quiet:   flags.Quiet,
				Debug:   debugEnabled(),
				File:    cfg.Log.File,
				Console: consoleOverride(cmd),
			})
			logger.Debug().Str("command", cmd.CommandPath()).Msg("starting")

			ctx = logger.WithContext(withConfig(ctx, cfg))
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddCreateCommand(cmd, flags)
	AddAgentsCommand(cmd)
	AddDoctorCommand(cmd)

	return cmd
}

// consoleKey lets tests route the console logger away from stderr.
type consoleKey struct{}

func consoleOverride(cmd *cobra.Command) io.Writer {
	if cmd.Context() == nil {
		return nil
	}
	w, _ := cmd.Context().Value(consoleKey{}).(io.Writer)
	return w
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. Errors are printed to stderr before being
// returned; map them to an exit code with ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(cmd.ErrOrStderr(), err, flags.Verbose || debugEnabled())
	}
	return err
}

// loggerFrom returns the logger stored in ctx, or a disabled logger.
func loggerFrom(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}
