// Command dastserver serves the dast renderers over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/derickschaefer/dast/internal/config"
	"github.com/derickschaefer/dast/internal/logger"
	"github.com/derickschaefer/dast/internal/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		color.Red("dastserver: %v", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		FilePath:   cfg.App.LogFilePath,
		Production: cfg.IsProduction(),
	})
	defer log.Sync()

	srv := server.New(cfg, logger.Named(log, "server"))

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("error during server shutdown", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
