package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paintly-probe/internal/config"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/logger"
	"paintly-probe/internal/server"
	"paintly-probe/internal/targets"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadService()
	if err != nil {
		logger.Must(false).Fatal("Failed to load config", zap.Error(err))
	}
	log := logger.Must(cfg.Debug)
	defer func() { _ = log.Sync() }()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	cat, err := targets.Load(cfg.TargetsPath, cfg.ScanLimit)
	if err != nil {
		log.Fatal("Failed to load targets", zap.Error(err))
	}

	addr := cfg.ServerAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(locator.New(log), cat, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
