package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roivaz/pr-dupcheck/internal/config"
	"github.com/roivaz/pr-dupcheck/internal/db"
	dbmigrate "github.com/roivaz/pr-dupcheck/internal/db/migrate"
	"github.com/roivaz/pr-dupcheck/internal/report"
	"github.com/roivaz/pr-dupcheck/internal/source"
)

var rootCmd = &cobra.Command{
	Use:          "dbctl",
	Short:        "Manage the detection archive",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending archive migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(_ *db.Database, manager *dbmigrate.Manager) error {
			applied, err := manager.Up(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "archive schema is up to date")
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		})
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Roll back archive migration groups (drops archived runs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, _ := cmd.Flags().GetInt("groups")
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			return errors.New("rollback deletes archived runs; pass --confirm to proceed")
		}
		return withManager(cmd.Context(), func(_ *db.Database, manager *dbmigrate.Manager) error {
			rolledBack, err := manager.Rollback(cmd.Context(), groups)
			if err != nil {
				return err
			}
			for _, name := range rolledBack {
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", name)
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending archive migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(_ *db.Database, manager *dbmigrate.Manager) error {
			status, err := manager.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range status {
				state := "pending"
				if m.IsApplied() {
					state = "applied " + m.MigratedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s_%s\t%s\n", m.Name, m.Comment, state)
			}
			return nil
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Fail unless the archive schema is current",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(database *db.Database) error {
			return dbmigrate.EnsureCurrent(cmd.Context(), database.Bun(), config.MigrationsDir(), false)
		})
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Print archived detection runs of the repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		number, _ := cmd.Flags().GetInt("pr")
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")
		format, err := report.ParseFormat(output)
		if err != nil {
			return err
		}
		return withArchive(cmd.Context(), func(archive *db.ArchiveRepository) error {
			var runs []db.DetectionRun
			if number > 0 {
				runs, err = archive.RunsForPR(cmd.Context(), number, limit)
			} else {
				runs, err = archive.RecentRuns(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("load runs of %s: %w", archive.Repository(), err)
			}
			if len(runs) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no archived runs for %s\n", archive.Repository())
				return nil
			}
			for _, run := range runs {
				if err := report.Write(cmd.OutOrStdout(), db.ToReport(run), format, false); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archived runs of the repository older than a retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return errors.New("--older-than must be positive")
		}
		cutoff := time.Now().Add(-olderThan)
		return withArchive(cmd.Context(), func(archive *db.ArchiveRepository) error {
			n, err := archive.Prune(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d runs of %s recorded before %s\n",
				n, archive.Repository(), cutoff.UTC().Format(time.RFC3339))
			return nil
		})
	},
}

func main() {
	flags := rootCmd.PersistentFlags()
	flags.String("dsn", "", "Archive Postgres DSN (env POSTGRES_URL)")
	flags.String("migrations", "", "Migrations directory (default: migrations built into the binary)")
	flags.String("repo", "", "Repository as owner/name or URL (env GITHUB_REPOSITORY)")
	config.Init(nil)
	_ = viper.BindPFlag(config.KeyPostgresURL, flags.Lookup("dsn"))
	_ = viper.BindPFlag(config.KeyMigrationsDir, flags.Lookup("migrations"))
	_ = viper.BindPFlag(config.KeyGitHubRepository, flags.Lookup("repo"))

	rollbackCmd.Flags().Int("groups", 1, "Migration groups to roll back (0 = all)")
	rollbackCmd.Flags().Bool("confirm", false, "Confirm that archived runs may be dropped")
	runsCmd.Flags().Int("pr", 0, "Only runs for this pull request")
	runsCmd.Flags().Int("limit", 10, "Maximum number of runs")
	runsCmd.Flags().StringP("output", "o", "text", "Report format: text, json or yaml")
	pruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Retention window")

	rootCmd.AddCommand(migrateCmd, rollbackCmd, statusCmd, verifyCmd, runsCmd, pruneCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dbctl: %v\n", err)
		os.Exit(1)
	}
}

func withDatabase(ctx context.Context, fn func(*db.Database) error) error {
	dsn := config.PostgresURL()
	if dsn == "" {
		return errors.New("archive DSN required (--dsn or POSTGRES_URL)")
	}
	database, err := db.Open(ctx, db.Config{DSN: dsn, Debug: config.DBDebug()})
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database)
}

func withManager(ctx context.Context, fn func(*db.Database, *dbmigrate.Manager) error) error {
	return withDatabase(ctx, func(database *db.Database) error {
		manager, err := dbmigrate.NewManager(database.Bun(), config.MigrationsDir())
		if err != nil {
			return err
		}
		if err := manager.Init(ctx); err != nil {
			return err
		}
		return fn(database, manager)
	})
}

// withArchive opens the archive of the configured repository after checking
// its schema is current.
func withArchive(ctx context.Context, fn func(*db.ArchiveRepository) error) error {
	owner, repo, err := source.ParseRepository(config.GitHubRepository())
	if err != nil {
		return fmt.Errorf("repository required (--repo or GITHUB_REPOSITORY): %w", err)
	}
	return withDatabase(ctx, func(database *db.Database) error {
		if err := dbmigrate.EnsureCurrent(ctx, database.Bun(), config.MigrationsDir(), false); err != nil {
			return err
		}
		return fn(db.NewArchiveRepository(database, owner+"/"+repo))
	})
}
