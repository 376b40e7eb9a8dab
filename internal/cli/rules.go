package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/changelog"
	"github.com/ariel-frischer/autobump/internal/output"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show how commit messages are classified",
		Long: `Show the classification rules in priority order.

Messages are lower-cased before matching and the first matching rule wins,
so a breaking marker (feat! or fix!) takes precedence over fix: and feat:.`,
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for i, rule := range changelog.DefaultRules() {
				label := fmt.Sprintf("%d. %s", i+1, rule.Name)
				output.PrintKeyValue(out, label, 14, fmt.Sprintf("%-18s %s bump", rule.Category.Title(), rule.Bump))
			}
			return nil
		},
	}
}
