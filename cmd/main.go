package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpadapter "ctv-ads/internal/adapter/http"
	"ctv-ads/internal/adapter/postgres"
	redisadapter "ctv-ads/internal/adapter/redis"
	"ctv-ads/internal/adapter/usecase"
	"ctv-ads/internal/config"
	"ctv-ads/internal/db"
	"ctv-ads/internal/metrics"
)

// main is the entry point of the ad server. It loads configuration,
// optionally runs database migrations, connects to Postgres and Redis, then
// runs the cache synchronizer, the impression batcher and the HTTP server
// until a termination signal arrives.
func main() {
	dotenv := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(cfg.Log.Handler(os.Stdout)).With(slog.String("env", cfg.Env))
	if len(dotenv) > 0 {
		logger.Info("loaded env files", slog.Any("files", dotenv))
	}

	if err = run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if cfg.Psql.RunMigrations {
		version, err := db.Migrate(cfg.Psql.Addr.String())
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied successfully", slog.Uint64("version", uint64(version)))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer pool.Close()

	if cfg.Psql.RunSeed {
		if err = db.Seed(ctx, pool); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("demo data seeded")
	}

	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	metrics.Register()

	var (
		cache       = redisadapter.NewAdCache(rdb, cfg.Cache.TTL)
		catalog     = postgres.NewCatalogRepository(pool)
		impressions = postgres.NewImpressionRepository(pool)

		ads     = usecase.NewAdUseCase(cache, cfg.Decision, logger)
		syncer  = usecase.NewCacheSync(catalog, cache, cfg.Sync, logger)
		batcher = usecase.NewImpressionBatcher(impressions, cfg.Batch, logger)
		stats   = usecase.NewStatsUseCase(impressions)
	)

	handler := httpadapter.NewHandler(ads, batcher, syncer, stats, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	// The batcher outlives the server so the final flush sees every event.
	batchCtx, stopBatcher := context.WithCancel(context.Background())
	defer stopBatcher()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return syncer.Run(gctx) })
	g.Go(func() error { return batcher.Run(batchCtx) })
	if cfg.Sync.Listen {
		listener := postgres.NewCatalogListener(pool, cfg.Sync.ListenChannel, logger)
		g.Go(func() error { return listener.Run(gctx, syncer.Notify) })
	}
	g.Go(func() error {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		defer stopBatcher()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
			return err
		}
		logger.Info("server gracefully stopped")
		return nil
	})

	return g.Wait()
}
