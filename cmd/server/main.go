// The certifi server exposes the document certification pipeline over
// HTTP. main wires configuration, storage, audit, and the router; all
// business logic lives in the internal packages.
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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"certifi/internal/audit"
	httpapi "certifi/internal/http"
	"certifi/internal/pipeline"
	"certifi/internal/pipeline/handler"
	"certifi/internal/platform/config"
	"certifi/internal/platform/httpserver"
	"certifi/internal/platform/logger"
	"certifi/internal/platform/metrics"
	platformredis "certifi/internal/platform/redis"
	"certifi/internal/records"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthChecks := map[string]httpapi.HealthCheck{}

	var store records.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		pg := records.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store = pg
		healthChecks["postgres"] = pool.Ping
	} else {
		log.Warn("no database configured, records are kept in memory")
		store = records.NewMemory()
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
		store = records.NewDedup(store, records.NewHashIndex(rdb.Client, 0))
		healthChecks["redis"] = rdb.Health
	}

	var auditStore audit.Store = audit.NewMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafka.Close()
		auditStore = kafka
	}

	publisher := audit.NewPublisher(log, m)
	worker := audit.NewWorker(auditStore, publisher.Queue(), log)

	service := pipeline.NewService(log, m)
	api := handler.New(service, store, publisher, log, m, cfg.ClaimBasedDefault)

	router := httpapi.NewRouter(httpapi.Config{
		Logger:        log,
		JWTSigningKey: []byte(cfg.JWTSigningKey),
		API:           api,
		HealthChecks:  healthChecks,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting certifi server", "addr", cfg.Addr, "claim_based_default", cfg.ClaimBasedDefault)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
