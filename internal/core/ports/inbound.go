package ports

import (
	"context"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

// SubmissionIntake is the inbound contract for accepting new submissions.
// Submit returns as soon as the submission is recorded; verification runs
// asynchronously.
type SubmissionIntake interface {
	Submit(ctx context.Context, payload domain.PayloadDescriptor, meta domain.SubmissionMetadata) (*domain.Submission, error)
}

// SubmissionVerifier is the inbound contract for the asynchronous
// verification task. Exactly one invocation is scheduled per accepted
// submission; re-invocation against a terminal submission is a no-op.
type SubmissionVerifier interface {
	VerifyByID(ctx context.Context, submissionID string) error
}
