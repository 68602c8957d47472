package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/vnshop/storefront/internal/api/http"
	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	server, err := httptransport.NewServer(ctx, httptransport.ServerOptions{
		App:            cfg.App,
		DevServer:      cfg.DevServer,
		Logger:         logger,
		Registry:       registry,
		RequestTimeout: cfg.Backend.LongTimeout(),
	})
	if err != nil {
		logger.Fatal("failed to build devserver", zap.Error(err))
	}

	go func() {
		logger.Info("devserver listening", zap.String("addr", cfg.DevServer.Addr()))
		if err := server.App.Listen(cfg.DevServer.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = server.App.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
