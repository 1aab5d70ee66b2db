package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/usersvc/internal/config"
	"github.com/JonMunkholm/usersvc/internal/core"
	"github.com/JonMunkholm/usersvc/internal/logging"
	"github.com/JonMunkholm/usersvc/internal/store"
	"github.com/JonMunkholm/usersvc/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Database.Driver,
		"bulk_max", cfg.Users.BulkMax,
		"bulk_max_concurrent", cfg.Users.BulkMaxConcurrent,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()
	userStore, closeStore, err := store.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	slog.Info("connected to store", "driver", cfg.Database.Driver)

	service := core.NewService(userStore, cfg.Users)
	server := web.NewServer(service, *cfg)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		_ = shutdown(shutdownCtx, server, service.Limiter())
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		closeStore()
		os.Exit(1)
	}

	<-shutdownDone
	slog.Info("server stopped")
}
