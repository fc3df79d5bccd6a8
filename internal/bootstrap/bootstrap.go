// Package bootstrap wires configuration into concrete adapters and the core
// use cases. Both binaries build their object graph through it so backend
// selection stays in one place.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kalamitra/heritage-verify/internal/config"
	"github.com/kalamitra/heritage-verify/internal/core/ports"
	"github.com/kalamitra/heritage-verify/internal/core/usecase"
	natsqueue "github.com/kalamitra/heritage-verify/internal/infrastructure/queue/nats"
	"github.com/kalamitra/heritage-verify/internal/infrastructure/repository/memory"
	"github.com/kalamitra/heritage-verify/internal/infrastructure/repository/postgres"
	"github.com/kalamitra/heritage-verify/internal/infrastructure/resilience"
	"github.com/kalamitra/heritage-verify/internal/infrastructure/schedule"
)

// App holds the wired object graph for one process.
type App struct {
	Config config.Config

	Submissions ports.SubmissionRepository
	Packs       ports.PackRepository
	Intake      *usecase.SubmitUseCase
	Verifier    *usecase.VerifyUseCase
	Delays      *schedule.Delays

	db        *sql.DB
	queue     *natsqueue.Queue
	scheduler *schedule.InProcScheduler
}

// New builds the full graph for the given config. The optional recorder is
// threaded into the verify use case so each binary can attach its own
// metrics.
func New(ctx context.Context, cfg config.Config, recorder ports.VerificationRecorder) (*App, error) {
	app := &App{Config: cfg}

	if err := app.wireStorage(ctx, cfg); err != nil {
		return nil, err
	}

	scorer, err := buildScorer(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Verifier = usecase.NewVerifyUseCase(app.Submissions, app.Packs, scorer, recorder)

	app.Delays = schedule.NewDelays(schedule.Window{
		Min: cfg.VerifyDelayMin,
		Max: cfg.VerifyDelayMax,
	}, cfg.ScoringSeed)

	scheduler, err := app.wireScheduler(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Intake = usecase.NewSubmitUseCase(app.Submissions, scheduler)

	slog.Info("app_wired",
		"store_backend", cfg.StoreBackend,
		"queue_mode", cfg.QueueMode,
		"verify_delay_min", cfg.VerifyDelayMin.String(),
		"verify_delay_max", cfg.VerifyDelayMax.String(),
	)
	return app, nil
}

// Queue exposes the NATS connection for the worker binary. It is nil unless
// the queue mode is nats.
func (a *App) Queue() *natsqueue.Queue {
	return a.queue
}

// Close releases the scheduler, queue connection and database in reverse
// wiring order. Pending in-process timers are cancelled, not flushed.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.queue != nil {
		a.queue.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("db_close_failed", "error", err)
		}
	}
}

func (a *App) wireStorage(ctx context.Context, cfg config.Config) error {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory, "":
		a.Submissions = memory.NewSubmissionStore()
		a.Packs = memory.NewPackStore()
		return nil
	case config.StoreBackendPostgres:
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.db = db

		subs := postgres.NewSubmissionRepository(db)
		if err := subs.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure submissions schema: %w", err)
		}
		packs := postgres.NewPackRepository(db)
		if err := packs.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure packs schema: %w", err)
		}
		a.Submissions = subs
		a.Packs = packs
		return nil
	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (a *App) wireScheduler(cfg config.Config) (ports.VerificationScheduler, error) {
	switch cfg.QueueMode {
	case config.QueueModeInProc, "":
		a.scheduler = schedule.NewInProcScheduler(a.Verifier, a.Delays, cfg.VerifyTimeout)
		return a.scheduler, nil
	case config.QueueModeNATS:
		queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("connect queue: %w", err)
		}
		a.queue = queue
		return queue, nil
	default:
		return nil, fmt.Errorf("unknown queue mode %q", cfg.QueueMode)
	}
}

func buildScorer(cfg config.Config) (*usecase.Scorer, error) {
	rules := usecase.DefaultScoreRules()
	if cfg.ScoringRulePath != "" {
		loaded, err := usecase.LoadScoreRules(cfg.ScoringRulePath)
		if err != nil {
			return nil, fmt.Errorf("load scoring rules: %w", err)
		}
		rules = loaded
	}

	seed := cfg.ScoringSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return usecase.NewScorer(rules, rand.New(rand.NewSource(seed))), nil
}
