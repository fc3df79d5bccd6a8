package ports

import (
	"context"
	"time"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

// SubmissionRepository persists and reads submission state.
//
// Resolve applies a terminal resolution as a single write and only against a
// submission still in processing: it returns domain.ErrAlreadyResolved when
// the submission is already terminal and domain.ErrSubmissionNotFound when
// the id is unknown.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context) ([]domain.Submission, error)
	Resolve(ctx context.Context, id string, res domain.Resolution) error
}

// PackRepository persists and reads derived learning packs.
type PackRepository interface {
	Create(ctx context.Context, pack *domain.LearningPack) error
	GetByID(ctx context.Context, id string) (*domain.LearningPack, error)
	List(ctx context.Context) ([]domain.LearningPack, error)
}

// VerificationScheduler arranges exactly one deferred verification run for a
// freshly accepted submission.
type VerificationScheduler interface {
	ScheduleVerification(ctx context.Context, submissionID string) error
}

// VerificationRecorder receives verification outcome observations.
type VerificationRecorder interface {
	RecordOutcome(outcome string, score int, duration time.Duration)
	RecordQueueLag(lag time.Duration)
}
