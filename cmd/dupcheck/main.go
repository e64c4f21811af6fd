package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roivaz/pr-dupcheck/internal/config"
	"github.com/roivaz/pr-dupcheck/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "dupcheck",
	Short: "Detect duplicate or overlapping pull requests",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		base, err := logging.NewWithLevel(config.LogLevel())
		if err != nil {
			return err
		}
		logger = logging.New(base).WithName("dupcheck")
		return nil
	},
	SilenceUsage: true,
}

var logger logging.Logger

// persistentFlags maps flag names to configuration keys.
var persistentFlags = map[string]string{
	"repo":              config.KeyGitHubRepository,
	"github-api-url":    config.KeyGitHubAPIURL,
	"webhook-url":       config.KeyWebhookURL,
	"lookback":          config.KeyLookback,
	"min-score":         config.KeyMinScore,
	"min-file-overlap":  config.KeyMinFileOverlap,
	"top-n":             config.KeyTopN,
	"fetch-concurrency": config.KeyFetchConcurrency,
	"strict-ordering":   config.KeyStrictOrdering,
	"postgres-url":      config.KeyPostgresURL,
	"log-level":         config.KeyLogLevel,
}

func main() {
	flags := rootCmd.PersistentFlags()
	flags.String("repo", "", "Repository as owner/name or URL (env GITHUB_REPOSITORY)")
	flags.String("github-api-url", "", "GitHub Enterprise API URL")
	flags.String("webhook-url", "", "Chat webhook URL; notifications are logged when empty")
	flags.String("lookback", "168h", "Compare against pull requests updated within this window")
	flags.Float64("min-score", 0.5, "Minimum combined score for a match")
	flags.Float64("min-file-overlap", 0.4, "Minimum file overlap for a match")
	flags.Int("top-n", 3, "Maximum number of matches reported")
	flags.Int("fetch-concurrency", 4, "Parallel file-list fetches")
	flags.Bool("strict-ordering", false, "Fail when the pull request listing is not sorted by update time")
	flags.String("postgres-url", "", "Postgres DSN of the optional detection archive")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")

	config.Init(nil)
	for name, key := range persistentFlags {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(checkCmd, serveCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dupcheck: %v\n", err)
		os.Exit(1)
	}
}
