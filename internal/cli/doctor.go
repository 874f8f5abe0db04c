package cli

import (
	"github.com/spf13/cobra"

	"github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/preflight"
	"github.com/itechmeat/start-vibe-project/internal/tui"
)

// AddDoctorCommand adds the doctor command to the root command.
func AddDoctorCommand(root *cobra.Command) {
	root.AddCommand(newDoctorCmd(preflight.ExecExecutor{}))
}

func newDoctorCmd(executor preflight.Executor) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the tools a project run needs",
		Long: `Check that node, npm, npx and git are installed and recent enough.
Missing or outdated tools are listed with an install hint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			report, err := preflight.NewDetector(executor).Detect(ctx)
			if err != nil {
				return err
			}

			tui.NewPrinter(cmd.OutOrStdout()).Tools(report)

			if problems := report.Problems(); len(problems) > 0 {
				logger := loggerFrom(ctx)
				logger.Debug().Int("problems", len(problems)).Msg("preflight failed")
				return errors.NewError(errors.ErrCommandExecution, "Some required tools are missing or outdated").
					WithContext("problems", len(problems))
			}
			return nil
		},
	}
}
