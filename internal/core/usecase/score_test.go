package usecase

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

func TestScoreAddsAllMatchingSignals(t *testing.T) {
	scorer := NewScorer(DefaultScoreRules(), fixedPerturbation{value: 0.5})

	cases := []struct {
		name string
		meta domain.SubmissionMetadata
		want int
	}{
		{
			name: "no signals",
			meta: domain.SubmissionMetadata{Title: "Random Topic", Category: "Folk Arts", Description: "some notes", Attribution: "me"},
			want: 70,
		},
		{
			name: "dance category",
			meta: domain.SubmissionMetadata{Title: "Steps", Category: "Tamil Classical Dance", Description: "notes", Attribution: "me"},
			want: 85,
		},
		{
			name: "medicine category and keyword",
			meta: domain.SubmissionMetadata{Title: "Siddha Basics", Category: "Traditional Medicine", Description: "notes", Attribution: "me"},
			want: 88,
		},
		{
			name: "title keyword is case-insensitive",
			meta: domain.SubmissionMetadata{Title: "BHARATANATYAM adavus", Category: "Folk Arts", Description: "notes", Attribution: "me"},
			want: 80,
		},
		{
			name: "description and attribution keywords",
			meta: domain.SubmissionMetadata{Title: "Steps", Category: "Folk Arts", Description: "a Traditional practice", Attribution: "my Guru"},
			want: 83,
		},
		{
			name: "doctor honorific",
			meta: domain.SubmissionMetadata{Title: "Herbs", Category: "Folk Arts", Description: "notes", Attribution: "Doctor Rajesh"},
			want: 78,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scorer.Score(tc.meta); got != tc.want {
				t.Fatalf("Score() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreClampsAfterPerturbation(t *testing.T) {
	meta := domain.SubmissionMetadata{
		Title:       "Bharatanatyam Basics",
		Category:    "Tamil Classical Dance",
		Description: "Traditional hand gestures",
		Attribution: "Learned from Guru Meera",
	}

	// All signals total 108 before perturbation.
	high := NewScorer(DefaultScoreRules(), fixedPerturbation{value: 0.999999})
	if got := high.Score(meta); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}

	low := NewScorer(DefaultScoreRules(), fixedPerturbation{value: 0})
	if got := low.Score(meta); got != 98 {
		t.Fatalf("expected 98 at lower perturbation bound, got %d", got)
	}
}

func TestScoreStaysInRangeWithRealRand(t *testing.T) {
	scorer := NewScorer(DefaultScoreRules(), rand.New(rand.NewSource(1)))
	meta := domain.SubmissionMetadata{Title: "Random Topic", Category: "Folk Arts", Description: "some notes", Attribution: "me"}

	for i := 0; i < 1000; i++ {
		score := scorer.Score(meta)
		if score < 60 || score > 80 {
			t.Fatalf("signal-free score %d outside [60,80]", score)
		}
		status := StatusForScore(score)
		if status == domain.StatusVerified && score < 80 {
			t.Fatalf("score %d must not verify", score)
		}
	}
}

func TestStatusForScoreBands(t *testing.T) {
	cases := []struct {
		score int
		want  domain.SubmissionStatus
	}{
		{100, domain.StatusVerified},
		{80, domain.StatusVerified},
		{79, domain.StatusReview},
		{70, domain.StatusReview},
		{69, domain.StatusRejected},
		{0, domain.StatusRejected},
	}
	for _, tc := range cases {
		if got := StatusForScore(tc.score); got != tc.want {
			t.Fatalf("StatusForScore(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestLoadScoreRulesOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	raw := []byte(`
base: 50
category_bonuses:
  Kolam Art: 20
perturbation: 5
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadScoreRules(path)
	if err != nil {
		t.Fatalf("LoadScoreRules() error = %v", err)
	}
	if rules.Base != 50 {
		t.Fatalf("expected base 50, got %d", rules.Base)
	}
	if rules.CategoryBonuses["Kolam Art"] != 20 {
		t.Fatalf("expected Kolam Art bonus 20, got %d", rules.CategoryBonuses["Kolam Art"])
	}
	if rules.Perturbation != 5 {
		t.Fatalf("expected perturbation 5, got %d", rules.Perturbation)
	}
	// Sections absent from the file keep their defaults.
	if rules.TitleKeywords["bharatanatyam"] != 10 {
		t.Fatalf("expected default title keywords preserved")
	}

	scorer := NewScorer(rules, fixedPerturbation{value: 0.5})
	got := scorer.Score(domain.SubmissionMetadata{Title: "x", Category: "Kolam Art", Description: "y", Attribution: "z"})
	if got != 70 {
		t.Fatalf("expected 50 + 20 = 70, got %d", got)
	}
}

func TestLoadScoreRulesMissingFile(t *testing.T) {
	if _, err := LoadScoreRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing rules file")
	}
}
