package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kalamitra/heritage-verify/internal/core/ports"
)

// InProcScheduler runs verification on process-local timers. It is the
// single-binary alternative to the queue worker: each scheduled submission
// gets exactly one timer, and Stop drains pending timers without firing them
// so a cancelled task never mutates its submission.
type InProcScheduler struct {
	verifier ports.SubmissionVerifier
	delays   *Delays
	timeout  time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func NewInProcScheduler(verifier ports.SubmissionVerifier, delays *Delays, timeout time.Duration) *InProcScheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &InProcScheduler{
		verifier: verifier,
		delays:   delays,
		timeout:  timeout,
		timers:   make(map[string]*time.Timer),
	}
}

func (s *InProcScheduler) ScheduleVerification(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return errors.New("scheduler stopped")
	}

	delay := s.delays.Next()
	s.wg.Add(1)
	s.timers[submissionID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.forget(submissionID)

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.verifier.VerifyByID(ctx, submissionID); err != nil {
			// Fail closed: the submission stays in processing and is left
			// detectable through its uploaded_at staleness.
			slog.Error("verification_task_failed", "submission_id", submissionID, "error", err)
		}
	})

	slog.Debug("verification_scheduled", "submission_id", submissionID, "delay_ms", delay.Milliseconds())
	return nil
}

// Stop cancels all pending timers and waits for in-flight verification runs.
func (s *InProcScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *InProcScheduler) forget(submissionID string) {
	s.mu.Lock()
	delete(s.timers, submissionID)
	s.mu.Unlock()
}
