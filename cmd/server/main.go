package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skripsit/backend/internal/config"
	"github.com/skripsit/backend/internal/server"
	"github.com/skripsit/backend/internal/server/storage/boltdb"
	"github.com/skripsit/backend/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	revoked, err := boltdb.New(ctx, cfg.RevocationPath)
	if err != nil {
		return fmt.Errorf("open revocation store: %w", err)
	}
	defer revoked.Close()

	// Sweep expired revocation entries so the store only holds tokens
	// that could still be presented.
	go sweepRevoked(ctx, logger, revoked, cfg.SessionTTL)

	srv := server.New(logger, cfg, store, store, revoked, Version)
	return srv.Run(ctx)
}

func sweepRevoked(ctx context.Context, logger *slog.Logger, revoked *boltdb.Store, interval time.Duration) {
	ticker := time.NewTicker(interval / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := revoked.DeleteExpired(ctx)
			if err != nil {
				logger.Error("revocation sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("revocation sweep", "deleted", deleted)
			}
		}
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func printVersion() {
	fmt.Printf("Skripsit API Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
