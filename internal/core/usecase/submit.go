package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
	"github.com/kalamitra/heritage-verify/internal/core/ports"
)

type SubmitUseCase struct {
	repo      ports.SubmissionRepository
	scheduler ports.VerificationScheduler
}

func NewSubmitUseCase(repo ports.SubmissionRepository, scheduler ports.VerificationScheduler) *SubmitUseCase {
	return &SubmitUseCase{repo: repo, scheduler: scheduler}
}

func (uc *SubmitUseCase) Submit(
	ctx context.Context,
	payload domain.PayloadDescriptor,
	meta domain.SubmissionMetadata,
) (*domain.Submission, error) {
	if err := validateSubmission(payload, meta); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &domain.Submission{
		ID:          uuid.NewString(),
		Title:       meta.Title,
		Category:    meta.Category,
		Description: meta.Description,
		Attribution: meta.Attribution,
		Status:      domain.StatusProcessing,
		UploadedAt:  now,
		FileName:    payload.FileName,
		FileSize:    payload.FileSize,
	}

	if err := uc.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if err := uc.scheduler.ScheduleVerification(ctx, sub.ID); err != nil {
		return nil, fmt.Errorf("schedule verification: %w", err)
	}

	return sub, nil
}

func validateSubmission(payload domain.PayloadDescriptor, meta domain.SubmissionMetadata) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", meta.Title},
		{"category", meta.Category},
		{"description", meta.Description},
		{"attribution", meta.Attribution},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"validate submission",
			fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")),
		)
	}

	if strings.TrimSpace(payload.FileName) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "validate submission", errors.New("payload file name is required"))
	}
	if payload.FileSize <= 0 {
		return domain.WrapError(domain.ErrInvalidInput, "validate submission", errors.New("payload is empty"))
	}
	return nil
}
