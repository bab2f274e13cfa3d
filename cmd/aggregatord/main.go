package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsfuse-hq/newsfuse-aggregator/internal/app"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/config"
	"github.com/newsfuse-hq/newsfuse-aggregator/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aggregatord start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("aggregatord starting", "config", map[string]any{
		"app_name":         cfg.AppName,
		"env":              cfg.Env,
		"refresh_interval": cfg.RefreshInterval.String(),
		"watchlist_file":   cfg.WatchlistFile,
		"sinks_file":       cfg.SinksFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := app.NewService(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize daemon", "error", err)
		return err
	}

	if err := service.Run(ctx); err != nil {
		return fmt.Errorf("daemon run: %w", err)
	}

	return nil
}
