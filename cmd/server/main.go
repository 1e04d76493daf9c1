// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/liarsdeck/internal/cache"
	"github.com/jason-s-yu/liarsdeck/internal/config"
	"github.com/jason-s-yu/liarsdeck/internal/game"
	"github.com/jason-s-yu/liarsdeck/internal/handlers"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.RoomOptions{TurnDuration: cfg.TurnTimeout}

	// the action log is optional; without redis the game runs unrecorded
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		opts.Publisher = cache.NewPublisher(rdb, cfg.QueueName)
		logger.Infof("recording game actions to redis queue %q", cfg.QueueName)
	}

	hub := handlers.NewHub()
	opts.SendFn = hub.Send
	store := game.NewRoomStore(opts)

	go game.NewSweeper(store, cfg.SweepInterval).Run(ctx)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(handlers.Deps{
			Store:             store,
			Hub:               hub,
			Logger:            logger,
			PublicURL:         cfg.PublicURL,
			AllowedOrigins:    cfg.AllowedOrigins,
			MessagesPerSecond: cfg.MessagesPerSecond,
			MessageBurst:      cfg.MessageBurst,
		}),
		// hijacked websocket sessions inherit ctx and end on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}()

	logger.Infof("Running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server exited: %v", err)
	}
	logger.Info("server stopped")
}
