// cmd/refresh/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"agent-catalog/internal/config"
	"agent-catalog/internal/github"
	"agent-catalog/internal/logging"
	"agent-catalog/internal/refresh"
	"agent-catalog/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[refresh] %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:           "refresh",
		Short:         "Refresh catalog metrics from the GitHub API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(cmd.Context(), slug)
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "refresh a single project by slug")
	return cmd
}

func runRefresh(ctx context.Context, slug string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewCLILogger(cfg.LogLevel)

	client, err := github.NewClient(cfg.GithubToken, logger)
	if err != nil {
		return err
	}

	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()

	opts := refresh.Options{Mode: refresh.ModeAll}
	if slug != "" {
		opts = refresh.Options{Mode: refresh.ModeOne, Slug: slug}
	}

	job := refresh.NewJob(store.NewPostgres(dbpool, logger), client, logger)
	summary, err := job.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Metrics refresh complete: processed=%d, updated=%d, failed=%d\n",
		summary.Processed, summary.Updated, summary.Failed)
	for _, line := range summary.Errors {
		fmt.Fprintf(os.Stderr, "[refresh] warning: %s\n", line)
	}

	// Partial per-target failures are an overall success; the operator can
	// re-run with --slug for the failed entries.
	return nil
}
