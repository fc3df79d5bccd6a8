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

	"github.com/kalamitra/heritage-verify/internal/bootstrap"
	"github.com/kalamitra/heritage-verify/internal/config"
	"github.com/kalamitra/heritage-verify/internal/observability/logging"
	"github.com/kalamitra/heritage-verify/internal/observability/metrics"
)

// The worker consumes submission ids published by the API, waits out the
// verification delay and resolves the submission. It only makes sense with a
// shared store and the NATS queue: in memory/inproc mode the API process does
// all of this itself.
func main() {
	cfg := config.Load()
	logging.Setup("heritage-verify-worker", cfg.LogLevel)

	if cfg.QueueMode != config.QueueModeNATS {
		slog.Error("worker_requires_nats_queue", "queue_mode", cfg.QueueMode)
		os.Exit(1)
	}
	if cfg.StoreBackend != config.StoreBackendPostgres {
		slog.Error("worker_requires_shared_store", "store_backend", cfg.StoreBackend)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app, err := bootstrap.New(ctx, cfg, workerMetrics)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	handle := func(msgCtx context.Context, submissionID string) error {
		delay := app.Delays.Next()
		slog.Info("verification_scheduled", "submission_id", submissionID, "delay", delay.String())

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-msgCtx.Done():
			return msgCtx.Err()
		}

		verifyCtx, cancel := context.WithTimeout(msgCtx, cfg.VerifyTimeout)
		defer cancel()
		return app.Verifier.VerifyByID(verifyCtx, submissionID)
	}

	slog.Info("worker_started", "subject", cfg.NATSSubject)
	if err := app.Queue().SubscribeVerificationRequests(ctx, handle); err != nil {
		slog.Error("worker_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("worker_stopped")
}
