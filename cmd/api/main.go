package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kalamitra/heritage-verify/internal/adapters/http"
	"github.com/kalamitra/heritage-verify/internal/bootstrap"
	"github.com/kalamitra/heritage-verify/internal/config"
	"github.com/kalamitra/heritage-verify/internal/observability/logging"
	"github.com/kalamitra/heritage-verify/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.Setup("heritage-verify-api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, workerMetrics)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	httpMetrics.AlsoGather(workerMetrics.Registry())
	router := httpadapter.NewRouter(cfg, app.Intake, app.Submissions, app.Packs, httpMetrics)

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api_listening", "addr", server.Addr, "queue_mode", cfg.QueueMode)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown_signal_received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server_failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("api_stopped")
}
