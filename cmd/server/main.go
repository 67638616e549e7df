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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"indigenousverify/internal/adapters/filestore"
	httpadapter "indigenousverify/internal/adapters/http"
	"indigenousverify/internal/adapters/memory"
	pg "indigenousverify/internal/adapters/postgres"
	redisstore "indigenousverify/internal/adapters/redis"
	"indigenousverify/internal/config"
	"indigenousverify/internal/observability"
	"indigenousverify/internal/ports"
	"indigenousverify/internal/services/verifications"
	"indigenousverify/internal/services/verifier"
)

func main() {
	cfg, cfgErr := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Error("invalid configuration", "error", cfgErr)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store init error", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		logger.Error("metrics init error", "error", err)
		os.Exit(1)
	}

	svc := verifications.New(verifier.New(), store,
		verifications.WithMetrics(metrics),
		verifications.WithLogger(logger))
	srv := httpadapter.New(svc, cfg.Version, registry, logger)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "backend", cfg.StoreBackend, "env", cfg.Env, "version", cfg.Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", fmt.Errorf("listen: %w", err))
			cancel()
			_ = store.Close()
			os.Exit(1)
		}
	}
}

// openStore builds the StateStore selected by cfg.StoreBackend.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.StateStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendPostgres:
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	case config.BackendRedis:
		rc := redisstore.ConfigDefaults()
		rc.Addr = cfg.RedisAddr
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		rc.Key = cfg.RedisKey
		store, err := redisstore.New(rc, logger)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return store, nil
	default:
		return filestore.New(cfg.DataFile, logger)
	}
}
