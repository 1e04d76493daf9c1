// cmd/historian is an asynchronous historian service that pops game actions
// from a Redis queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/liarsdeck/internal/cache"
	"github.com/jason-s-yu/liarsdeck/internal/config"
	"github.com/jason-s-yu/liarsdeck/internal/database"
	"github.com/jason-s-yu/liarsdeck/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.RedisAddr == "" {
		logger.Fatal("REDIS_ADDR is required for the historian")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL (or PG_HOST) is required for the historian")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	store := database.NewActionStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatalf("schema: %v", err)
	}

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	logger.Infof("historian consuming %q", cfg.QueueName)
	historian.NewService(rdb, cfg.QueueName, store, cfg.HistorianBatchSize, cfg.HistorianFlush, logger).Run(ctx)
	logger.Info("historian stopped")
}
