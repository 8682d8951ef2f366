package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/ayush/gastos-api/internal/auth"
	"github.com/ayush/gastos-api/internal/config"
	"github.com/ayush/gastos-api/internal/expenses"
	"github.com/ayush/gastos-api/internal/reports"
	"github.com/ayush/gastos-api/internal/salary"
	"github.com/ayush/gastos-api/internal/server"
	"github.com/ayush/gastos-api/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, db, err := openMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())
	if err := store.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	expenseStore := store.NewExpenseStore(db, cfg.Location)
	salaryStore := store.NewSalaryStore(db)

	// ── Identity store ───────────────────────────────────────
	users, closeUsers, err := openUsers(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeUsers()

	// ── Redis ────────────────────────────────────────────────
	expenseOpts := expenses.Options{Location: cfg.Location, Legacy: cfg.LegacyOwnership}
	if cfg.CacheEnabled() {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		expenseOpts.Cache = store.NewTotalsCache(rdb, cfg.TotalsCacheTTL)
	}

	// ── MinIO ────────────────────────────────────────────────
	var files reports.FileStore
	if cfg.ReportsEnabled() {
		minioStore, err := store.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return err
		}
		files = minioStore
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	router := server.NewRouter(server.Deps{
		Auth:     auth.NewHandler(users, tokens),
		Expenses: expenses.NewHandler(expenseStore, expenseOpts),
		Salary:   salary.NewHandler(salaryStore),
		Reports:  reports.NewHandler(expenseStore, files, cfg.Location),
		Tokens:   tokens,
		Ping: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		},
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRatePerMinute:  cfg.AuthRatePerMinute,
		LegacyOwnership:    cfg.LegacyOwnership,
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", srv.Addr, "users_backend", cfg.UsersBackend,
			"cache", cfg.CacheEnabled(), "reports", cfg.ReportsEnabled(), "legacy_ownership", cfg.LegacyOwnership)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}
