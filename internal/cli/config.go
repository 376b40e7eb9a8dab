package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/autobump/internal/config"
	clierrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage autobump configuration",
		Long: `Inspect and manage autobump configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Action inputs (INPUT_LAST-VERSION, INPUT_LAST-HASH, INPUT_GITHUB-TOKEN)
  3. Environment variables (AUTOBUMP_*)
  4. Project config (.autobump.yml, legacy .autobump.json)
  5. User config (~/.config/autobump/config.yml)
  6. Built-in defaults

GITHUB_TOKEN, GITHUB_REPOSITORY, GITHUB_API_URL, GITHUB_OUTPUT and
RUNNER_DEBUG fill in values that are still unset.`,
		Example: `  autobump config show
  autobump config keys
  autobump config init
  autobump config migrate --dry-run`,
		GroupID: GroupConfiguration,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigKeysCmd(),
		newConfigInitCmd(),
		newConfigMigrateCmd(),
	)
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return report(cmd.ErrOrStderr(), err, false)
			}
			reveal, _ := cmd.Flags().GetBool("reveal")

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg.Values(reveal)); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().Bool("reveal", false, "Show secrets instead of masking them")
	return cmd
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the known configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			defaults := config.GetDefaults()
			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				kind := schema.Type.String()
				if len(schema.AllowedValues) > 0 {
					kind = strings.Join(schema.AllowedValues, "|")
				}
				desc := fmt.Sprintf("%-14s default %-24v %s", kind, fmt.Sprintf("%q", fmt.Sprint(defaults[key])), schema.Description)
				if schema.Input != "" {
					desc += fmt.Sprintf(" [input: %s]", schema.Input)
				}
				output.PrintKeyValue(out, key, 14, desc)
			}
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented .autobump.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigPath()
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return report(cmd.ErrOrStderr(), clierrors.New(clierrors.Argument,
					fmt.Sprintf("%s already exists", path),
					"Use --force to overwrite it",
				), false)
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return report(cmd.ErrOrStderr(), clierrors.Wrap(err, clierrors.Runtime), false)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert a legacy .autobump.json to .autobump.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := config.MigrateProjectConfig(dryRun)
			if err != nil {
				return report(cmd.ErrOrStderr(), clierrors.InvalidConfig(err), false)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)

			if result.Success {
				if err := config.RemoveLegacyConfig(result.SourcePath, dryRun); err != nil {
					return report(cmd.ErrOrStderr(), clierrors.Wrap(err, clierrors.Runtime), false)
				}
				if !dryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s to %s.bak\n", result.SourcePath, result.SourcePath)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	return cmd
}
