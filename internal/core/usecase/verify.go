package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
	"github.com/kalamitra/heritage-verify/internal/core/ports"
)

// VerifyUseCase runs the deferred verification task for one submission. It is
// safe against missing submissions and double invocation: both are no-ops.
type VerifyUseCase struct {
	subs     ports.SubmissionRepository
	packs    ports.PackRepository
	scorer   *Scorer
	recorder ports.VerificationRecorder
}

func NewVerifyUseCase(
	subs ports.SubmissionRepository,
	packs ports.PackRepository,
	scorer *Scorer,
	recorder ports.VerificationRecorder,
) *VerifyUseCase {
	return &VerifyUseCase{
		subs:     subs,
		packs:    packs,
		scorer:   scorer,
		recorder: recorder,
	}
}

func (uc *VerifyUseCase) VerifyByID(ctx context.Context, submissionID string) error {
	start := time.Now()

	sub, err := uc.subs.GetByID(ctx, submissionID)
	if err != nil {
		if domain.IsKind(err, domain.ErrSubmissionNotFound) {
			slog.Warn("verification_skipped_missing_submission", "submission_id", submissionID)
			uc.record("missing", 0, start)
			return nil
		}
		return fmt.Errorf("fetch submission: %w", err)
	}

	if sub.Status.Terminal() {
		slog.Info("verification_skipped_terminal_submission",
			"submission_id", submissionID,
			"status", string(sub.Status),
		)
		uc.record("noop", 0, start)
		return nil
	}
	if uc.recorder != nil {
		uc.recorder.RecordQueueLag(start.UTC().Sub(sub.UploadedAt))
	}

	score := uc.scorer.Score(domain.SubmissionMetadata{
		Title:       sub.Title,
		Category:    sub.Category,
		Description: sub.Description,
		Attribution: sub.Attribution,
	})
	status := StatusForScore(score)

	res := domain.Resolution{
		Status:            status,
		AuthenticityScore: score,
	}
	if status == domain.StatusVerified {
		now := time.Now().UTC()
		pack := BuildLearningPack(uuid.NewString(), sub, score, now)
		if err := uc.packs.Create(ctx, pack); err != nil {
			return fmt.Errorf("create learning pack: %w", err)
		}
		res.VerifiedAt = &now
		res.PackID = &pack.ID
	}

	if err := uc.subs.Resolve(ctx, submissionID, res); err != nil {
		if domain.IsKind(err, domain.ErrAlreadyResolved) {
			slog.Info("verification_lost_resolution_race", "submission_id", submissionID)
			uc.record("noop", 0, start)
			return nil
		}
		return fmt.Errorf("resolve submission: %w", err)
	}

	slog.Info("submission_resolved",
		"submission_id", submissionID,
		"status", string(status),
		"authenticity_score", score,
	)
	uc.record(string(status), score, start)
	return nil
}

func (uc *VerifyUseCase) record(outcome string, score int, start time.Time) {
	if uc.recorder == nil {
		return
	}
	uc.recorder.RecordOutcome(outcome, score, time.Since(start))
}
