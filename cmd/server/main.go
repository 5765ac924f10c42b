package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	server "emberfall/server"
	"emberfall/server/internal/world"
)

func main() {
	logger, err := newLogger()
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := server.LoadConfig(sugar)
	hub := server.NewHub(cfg, sugar, world.New(world.DefaultNPCs(), world.DefaultItems()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go hub.RunHeartbeat(ctx)
	go hub.RunIdleReaper(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewHandler(hub, cfg)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Warnw("shutdown failed", "error", err)
		}
	}()

	sugar.Infow("relay listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("server failed", "error", err)
	}
	sugar.Infow("relay stopped")
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("RELAY_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
