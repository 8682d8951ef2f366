package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/gastos-api/internal/auth"
	"github.com/ayush/gastos-api/internal/config"
	"github.com/ayush/gastos-api/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gastos",
		Short:         "Personal expense tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newIndexesCmd(), newTotalsCmd())
	return root
}

// setup loads .env and the environment and installs the default logger.
func setup() (*config.Config, error) {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	slog.SetDefault(newLogger(cfg.LogFormat))
	return cfg, nil
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openMongo connects and returns the client with the configured database.
func openMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	client, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.MongoDB), nil
}

// openUsers returns the identity store selected by USERS_BACKEND. The returned
// close func releases the postgres pool when one was opened.
func openUsers(ctx context.Context, cfg *config.Config, db *mongo.Database) (auth.UserStore, func(), error) {
	if cfg.UsersBackend != config.UsersBackendPostgres {
		return store.NewMongoUserStore(db), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres connect: %w", err)
	}
	users := store.NewPostgresUserStore(pool)
	if err := users.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return users, pool.Close, nil
}
