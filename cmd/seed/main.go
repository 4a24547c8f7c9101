// cmd/seed/main.go
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
	"agent-catalog/internal/logging"
	"agent-catalog/internal/seed"
	"agent-catalog/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[seed] %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:           "seed [path]",
		Short:         "Bulk-import the seed dataset into the catalog",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSeed(cmd.Context(), path, remote)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "import into the remote catalog database")
	return cmd
}

func runSeed(ctx context.Context, path string, remote bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewCLILogger(cfg.LogLevel)

	if path == "" {
		path = cfg.SeedFile
	}

	dbURL, err := cfg.DatabaseURL(remote)
	if err != nil {
		return err
	}

	dbpool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()

	importer := seed.NewImporter(store.NewPostgres(dbpool, logger), logger)
	count, err := importer.Run(ctx, path)
	if err != nil {
		return err
	}

	target := "local"
	if remote {
		target = "remote"
	}
	fmt.Printf("Imported %d seed projects into the %s catalog.\n", count, target)
	return nil
}
