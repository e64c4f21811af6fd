package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roivaz/pr-dupcheck/internal/report"
	"github.com/roivaz/pr-dupcheck/internal/runner"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check one pull request against recently updated ones and notify on duplicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		prFlag, _ := cmd.Flags().GetInt("pr")
		output, _ := cmd.Flags().GetString("output")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		format, err := report.ParseFormat(output)
		if err != nil {
			return err
		}
		number, err := runner.ResolvePRNumber(prFlag)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		components, err := runner.Setup(ctx, logger)
		if err != nil {
			return err
		}
		defer components.Close()

		res, err := components.Runner().Run(ctx, number, dryRun)
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout(), res.Report, format, !color.NoColor && cmd.OutOrStdout() == os.Stdout)
	},
}

func init() {
	checkCmd.Flags().Int("pr", 0, "Pull request number (env PR_NUMBER, or taken from GITHUB_EVENT_PATH)")
	checkCmd.Flags().StringP("output", "o", "text", "Report format: text, json or yaml")
	checkCmd.Flags().Bool("dry-run", false, "Render the notification without sending it")
}
