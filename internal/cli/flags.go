package cli

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itechmeat/start-vibe-project/internal/config"
	"github.com/itechmeat/start-vibe-project/internal/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
	// ExitInterrupted indicates the run was interrupted (128 + SIGINT).
	ExitInterrupted = 130
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
	// ConfigFile is an explicit configuration file.
	ConfigFile string
	// AssetsRoot overrides the packaged asset lookup.
	AssetsRoot string
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	pf.StringVar(&flags.ConfigFile, "config", "", "path to a config file")
	pf.StringVar(&flags.AssetsRoot, "assets-root", "", "directory containing start-vibe-project.yaml")
	_ = pf.MarkHidden("assets-root")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// globalBindings maps root flags onto config keys.
func globalBindings(cmd *cobra.Command) []config.FlagBinding {
	rootFlags := cmd.Root().PersistentFlags()
	return []config.FlagBinding{
		{Key: "assets.root", Flag: rootFlags.Lookup("assets-root")},
	}
}

// ExitCodeForError returns the process exit code for err: 0 for nil, 130
// for cancellation, 2 for invalid input and 1 otherwise.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if stderrors.Is(err, errors.ErrOperationCancelled) {
		return ExitInterrupted
	}

	if errors.CodeOf(err) == errors.CodeValidation {
		return ExitInvalidInput
	}

	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError catches Cobra's built-in flag and argument errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts 1 arg(s)",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
