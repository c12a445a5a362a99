package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/case-market/internal/api"
	"github.com/baharkarakas/case-market/internal/config"
	"github.com/baharkarakas/case-market/internal/db"
	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/metrics"
	"github.com/baharkarakas/case-market/internal/repository/postgres"
	"github.com/baharkarakas/case-market/internal/rewards"
	"github.com/baharkarakas/case-market/internal/services"
	"github.com/baharkarakas/case-market/internal/worker"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := rewards.LoadFile(cfg.RewardTablePath)
	if err != nil {
		return err
	}
	catalog, err := rewards.NewCatalog(table, 0)
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	metrics.Init()
	wp := worker.NewPool(cfg.WorkerCount, metrics.WorkerQueueDepth)
	defer wp.Stop()

	repos := postgres.NewRepositories(pool)
	rec := services.NewRecorder(repos.Transactions, wp)
	userSvc, err := services.NewUserService(repos.Users, repos.Inventory, repos.Transactions, repos.Ledger, rec, cfg.IdempotencyCacheSize)
	if err != nil {
		return err
	}

	r := api.NewRouter(api.RouterDeps{
		Cfg:       cfg,
		CaseSvc:   services.NewCaseService(repos.Ledger, repos.Cases, catalog, rewards.GlobalSource, rec),
		MarketSvc: services.NewMarketService(repos.Ledger, repos.Listings, rec),
		ChatSvc:   services.NewChatService(repos.Listings, repos.Messages),
		UserSvc:   userSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "reward_tiers", len(table.Tiers))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
