package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/build"
	"github.com/ariel-frischer/autobump/internal/output"
)

// SourceURL is the project home.
const SourceURL = "https://github.com/ariel-frischer/autobump"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Show build information",
		GroupID: GroupConfiguration,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			info := build.GetInfo()

			if short, _ := cmd.Flags().GetBool("short"); short {
				fmt.Fprintln(out, info.Version)
				return nil
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			output.PrintKeyValue(out, "autobump", 10, info.Version)
			output.PrintKeyValue(out, "commit", 10, info.Commit)
			output.PrintKeyValue(out, "built", 10, describeBuildDate(info.BuildDate, time.Now()))
			output.PrintKeyValue(out, "go", 10, info.GoVersion)
			output.PrintKeyValue(out, "platform", 10, info.Platform)
			output.PrintKeyValue(out, "source", 10, SourceURL)
			return nil
		},
	}
	cmd.Flags().Bool("short", false, "Print only the version number")
	cmd.Flags().Bool("json", false, "Print build information as JSON")
	return cmd
}

// describeBuildDate appends a relative age to RFC 3339 build dates.
func describeBuildDate(date string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", date, humanize.RelTime(t, now, "ago", "from now"))
}
