package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"todolist/internal/config"
	"todolist/internal/handlers"
	"todolist/internal/logging"
	"todolist/internal/models"
	"todolist/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("TODO_CONFIG"), "path to a TOML config file")
	flag.Parse()

	// Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(os.Stderr, config.LogConfig{}).Fatal("failed to load config", "err", err)
	}

	logger := logging.New(os.Stderr, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ensure data directory exists
	if cfg.Store.Backend == config.BackendSQLite && cfg.Store.SQLite.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLite.Path), 0755); err != nil {
			logger.Fatal("failed to create data directory", "err", err)
		}
	}

	// Initialize store
	s, err := store.New(ctx, cfg.Store)
	if err != nil {
		logger.Fatal("failed to initialize store", "backend", cfg.Store.Backend, "err", err)
	}
	defer s.Close()

	h := handlers.New(s, models.UUIDGenerator, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "backend", cfg.Store.Backend, "hash", cfg.Store.HashKey)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", "err", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
