package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"optrack/internal/config"
	"optrack/internal/httpapi"
	"optrack/internal/tracklog"
	"optrack/internal/util"
	"optrack/internal/view"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "config/optrack.yaml"
	if p := os.Getenv("OPTRACK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dir := tracklog.NewDir(cfg.Storage.DataDir, logger)
	positions, portfolio := dir.LoadAll(ctx)
	logger.Info("logs loaded", "positions", len(positions), "portfolio", len(portfolio))

	srv := httpapi.NewDashboardServer(dir, view.NewController(positions, portfolio), cfg.Server.WebDir, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("dashboard server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down dashboard server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
