package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"restaurant-admin/internal/app/api"
	"restaurant-admin/internal/app/feed"
	"restaurant-admin/internal/common/config"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/connections/database"
)

func main() {
	mode := flag.String("mode", "api", "api | migrate | order-feed")
	port := flag.Int("port", 0, "api: http port (overrides HTTP_PORT)")
	configPath := flag.String("config", "", "path to a dotenv file (default: .env, then deploy/.env.example)")
	prefetch := flag.Int("prefetch", 10, "order-feed: RabbitMQ prefetch")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *configPath
	if path == "" {
		found, err := config.FindConfig()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			lg.Error("config_lookup_failed", err, nil)
			os.Exit(1)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	switch *mode {
	case "api":
		svcLog := logger.New("restaurant-admin")
		svcLog.SetLevel(cfg.LogLevel)
		lg.Info("service_started", map[string]any{"service": "restaurant-admin", "port": cfg.HTTP.Port})
		if err := api.Run(ctx, cfg, svcLog); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "migrate":
		version, err := database.Migrate(cfg.Database.MigrateURL())
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		lg.Info("migrations_applied", map[string]any{"version": version})
	case "order-feed":
		if !cfg.Rabbit.Enabled() {
			fmt.Fprintln(os.Stderr, "RABBITMQ_HOST is required for order-feed")
			os.Exit(2)
		}
		svcLog := logger.New("order-feed")
		svcLog.SetLevel(cfg.LogLevel)
		lg.Info("service_started", map[string]any{"service": "order-feed", "prefetch": *prefetch})
		if err := feed.Run(ctx, feed.Config{Rabbit: cfg.Rabbit, Prefetch: *prefetch}, svcLog); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: api | migrate | order-feed")
		os.Exit(2)
	}
}
