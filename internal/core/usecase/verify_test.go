package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

// fixedPerturbation stands in for the rand source: 0.5 maps to a zero
// perturbation, 0 to the lower bound, and values close to 1 to the upper.
type fixedPerturbation struct {
	value float64
}

func (f fixedPerturbation) Float64() float64 { return f.value }

type verifyRepoFake struct {
	sub         *domain.Submission
	getErr      error
	resolveErr  error
	resolutions []domain.Resolution
}

func (f *verifyRepoFake) Create(context.Context, *domain.Submission) error { return nil }

func (f *verifyRepoFake) GetByID(context.Context, string) (*domain.Submission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copySub := *f.sub
	return &copySub, nil
}

func (f *verifyRepoFake) List(context.Context) ([]domain.Submission, error) { return nil, nil }

func (f *verifyRepoFake) Resolve(_ context.Context, _ string, res domain.Resolution) error {
	if f.resolveErr != nil {
		return f.resolveErr
	}
	f.resolutions = append(f.resolutions, res)
	return nil
}

type packRepoFake struct {
	created []domain.LearningPack
	err     error
}

func (f *packRepoFake) Create(_ context.Context, pack *domain.LearningPack) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *pack)
	return nil
}

func (f *packRepoFake) GetByID(context.Context, string) (*domain.LearningPack, error) {
	return nil, domain.ErrPackNotFound
}

func (f *packRepoFake) List(context.Context) ([]domain.LearningPack, error) { return nil, nil }

func processingSubmission() *domain.Submission {
	return &domain.Submission{
		ID:          "sub-1",
		Title:       "Bharatanatyam Basics",
		Category:    "Tamil Classical Dance",
		Description: "Traditional hand gestures",
		Attribution: "Learned from Guru Meera",
		Status:      domain.StatusProcessing,
		UploadedAt:  time.Now().UTC().Add(-5 * time.Second),
		FileName:    "lesson.mp4",
		FileSize:    2048,
	}
}

func newVerify(subs *verifyRepoFake, packs *packRepoFake, perturbation float64) *VerifyUseCase {
	scorer := NewScorer(DefaultScoreRules(), fixedPerturbation{value: perturbation})
	return NewVerifyUseCase(subs, packs, scorer, nil)
}

func TestVerifyStrongSignalsProduceVerifiedWithPack(t *testing.T) {
	subs := &verifyRepoFake{sub: processingSubmission()}
	packs := &packRepoFake{}
	// Base 70 + category 15 + title 10 + description 5 + attribution 8 = 108;
	// lower-bound perturbation -10 gives 98, clamped range [98,100].
	uc := newVerify(subs, packs, 0)

	if err := uc.VerifyByID(context.Background(), "sub-1"); err != nil {
		t.Fatalf("VerifyByID() error = %v", err)
	}
	if len(subs.resolutions) != 1 {
		t.Fatalf("expected one resolution, got %d", len(subs.resolutions))
	}

	res := subs.resolutions[0]
	if res.Status != domain.StatusVerified {
		t.Fatalf("expected verified, got %s", res.Status)
	}
	if res.AuthenticityScore < 90 || res.AuthenticityScore > 100 {
		t.Fatalf("expected score in [90,100], got %d", res.AuthenticityScore)
	}
	if res.VerifiedAt == nil || res.PackID == nil {
		t.Fatalf("expected verified_at and pack_id set together, got %+v", res)
	}

	if len(packs.created) != 1 {
		t.Fatalf("expected one pack created, got %d", len(packs.created))
	}
	pack := packs.created[0]
	if pack.ID != *res.PackID {
		t.Fatalf("resolution pack id %s does not match created pack %s", *res.PackID, pack.ID)
	}
	if pack.AuthenticityScore != res.AuthenticityScore {
		t.Fatalf("pack score %d does not match submission score %d", pack.AuthenticityScore, res.AuthenticityScore)
	}
	if pack.UploaderAttribution != "Learned from Guru Meera" {
		t.Fatalf("unexpected uploader attribution %q", pack.UploaderAttribution)
	}
	if pack.MedicalDisclaimer {
		t.Fatalf("dance pack should not carry a medical disclaimer")
	}
}

func TestVerifyBandingAtExactBoundaries(t *testing.T) {
	// No signal metadata: the score is base 70 plus the perturbation alone.
	cases := []struct {
		name         string
		perturbation float64
		wantScore    int
		wantStatus   domain.SubmissionStatus
		wantPack     bool
	}{
		{"upper bound reaches verified", 0.999999, 80, domain.StatusVerified, true},
		{"zero perturbation is review", 0.5, 70, domain.StatusReview, false},
		{"lower bound is rejected", 0, 60, domain.StatusRejected, false},
		{"just under review band", 0.45, 69, domain.StatusRejected, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := processingSubmission()
			sub.Title = "Random Topic"
			sub.Category = "Folk Arts"
			sub.Description = "some notes"
			sub.Attribution = "me"

			subs := &verifyRepoFake{sub: sub}
			packs := &packRepoFake{}
			uc := newVerify(subs, packs, tc.perturbation)

			if err := uc.VerifyByID(context.Background(), "sub-1"); err != nil {
				t.Fatalf("VerifyByID() error = %v", err)
			}
			res := subs.resolutions[0]
			if res.AuthenticityScore != tc.wantScore {
				t.Fatalf("expected score %d, got %d", tc.wantScore, res.AuthenticityScore)
			}
			if res.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, res.Status)
			}
			gotPack := len(packs.created) == 1
			if gotPack != tc.wantPack {
				t.Fatalf("pack created = %v, want %v", gotPack, tc.wantPack)
			}
			if !tc.wantPack && (res.VerifiedAt != nil || res.PackID != nil) {
				t.Fatalf("non-verified resolution must not set verified_at or pack_id: %+v", res)
			}
		})
	}
}

func TestVerifyMedicalCategorySetsDisclaimer(t *testing.T) {
	sub := processingSubmission()
	sub.Title = "Siddha Herbal Preparations"
	sub.Category = domain.CategoryTraditionalMedicine
	sub.Description = "Traditional diagnostics"
	sub.Attribution = "Doctor Rajesh"

	subs := &verifyRepoFake{sub: sub}
	packs := &packRepoFake{}
	// Bonuses alone total 101, so any perturbation stays verified.
	uc := newVerify(subs, packs, 0)

	if err := uc.VerifyByID(context.Background(), "sub-1"); err != nil {
		t.Fatalf("VerifyByID() error = %v", err)
	}
	if len(packs.created) != 1 {
		t.Fatalf("expected pack for verified medical submission")
	}
	if !packs.created[0].MedicalDisclaimer {
		t.Fatalf("expected medical disclaimer on Traditional Medicine pack")
	}
}

func TestVerifyMissingSubmissionIsNoOp(t *testing.T) {
	subs := &verifyRepoFake{getErr: domain.ErrSubmissionNotFound}
	packs := &packRepoFake{}
	uc := newVerify(subs, packs, 0.5)

	if err := uc.VerifyByID(context.Background(), "ghost"); err != nil {
		t.Fatalf("expected no-op for missing submission, got %v", err)
	}
	if len(subs.resolutions) != 0 || len(packs.created) != 0 {
		t.Fatalf("expected no writes for missing submission")
	}
}

func TestVerifyTerminalSubmissionIsNoOp(t *testing.T) {
	score := 85
	sub := processingSubmission()
	sub.Status = domain.StatusVerified
	sub.AuthenticityScore = &score

	subs := &verifyRepoFake{sub: sub}
	packs := &packRepoFake{}
	uc := newVerify(subs, packs, 0.5)

	if err := uc.VerifyByID(context.Background(), "sub-1"); err != nil {
		t.Fatalf("expected no-op for terminal submission, got %v", err)
	}
	if len(subs.resolutions) != 0 || len(packs.created) != 0 {
		t.Fatalf("re-running verification must not re-score a terminal submission")
	}
}

func TestVerifyLostResolutionRaceIsNoOp(t *testing.T) {
	subs := &verifyRepoFake{sub: processingSubmission(), resolveErr: domain.ErrAlreadyResolved}
	uc := newVerify(subs, &packRepoFake{}, 0.5)

	if err := uc.VerifyByID(context.Background(), "sub-1"); err != nil {
		t.Fatalf("expected no-op when resolution already applied, got %v", err)
	}
}
