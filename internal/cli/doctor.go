package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/health"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that a run has everything it needs",
		Long: `Check configuration, credentials and the working copy without calling the
GitHub API. Exits 1 when any check fails.`,
		GroupID: GroupConfiguration,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return report(cmd.ErrOrStderr(), err, false)
			}

			result := health.RunHealthChecks(cfg)
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(result))
			if !result.Passed {
				return NewExitError(ExitFailure)
			}
			return nil
		},
	}
}
