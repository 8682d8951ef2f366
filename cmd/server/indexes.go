package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ayush/gastos-api/internal/store"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			client, db, err := openMongo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			if err := store.EnsureIndexes(cmd.Context(), db); err != nil {
				return err
			}
			slog.Info("indexes ensured", "db", cfg.MongoDB)
			return nil
		},
	}
}
