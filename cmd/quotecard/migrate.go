package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/quotecard/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply watchlist database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if !a.cfg.Database.Enabled() {
				return errors.New("database.host is required to migrate")
			}

			ctx := cmd.Context()
			pool, err := database.Connect(ctx, a.cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}

			files, err := database.MigrationFiles()
			if err != nil {
				return err
			}
			a.logger.Info("migrations applied",
				"database", a.cfg.Database.Name,
				"files", len(files),
			)
			return nil
		},
	}
}
