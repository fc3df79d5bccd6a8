package usecase

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

// ScoreRules is the signal table for the authenticity heuristic. Category
// bonuses match on the exact category string; keyword bonuses match on a
// case-insensitive substring of the respective metadata field.
type ScoreRules struct {
	Base                int            `yaml:"base"`
	CategoryBonuses     map[string]int `yaml:"category_bonuses"`
	TitleKeywords       map[string]int `yaml:"title_keywords"`
	DescriptionKeywords map[string]int `yaml:"description_keywords"`
	AttributionKeywords map[string]int `yaml:"attribution_keywords"`
	Perturbation        int            `yaml:"perturbation"`
}

// DefaultScoreRules returns the built-in heuristic signal table.
func DefaultScoreRules() ScoreRules {
	return ScoreRules{
		Base: 70,
		CategoryBonuses: map[string]int{
			"Tamil Classical Dance":            15,
			domain.CategoryTraditionalMedicine: 10,
		},
		TitleKeywords: map[string]int{
			"bharatanatyam": 10,
			"siddha":        8,
		},
		DescriptionKeywords: map[string]int{
			"traditional": 5,
		},
		AttributionKeywords: map[string]int{
			"guru":   8,
			"doctor": 8,
		},
		Perturbation: 10,
	}
}

// LoadScoreRules reads a YAML rules file. Zero-valued sections fall back to
// the built-in defaults so a partial file only overrides what it names.
func LoadScoreRules(path string) (ScoreRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScoreRules{}, fmt.Errorf("read scoring rules: %w", err)
	}

	rules := DefaultScoreRules()
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return ScoreRules{}, fmt.Errorf("parse scoring rules: %w", err)
	}
	if rules.Base <= 0 {
		rules.Base = DefaultScoreRules().Base
	}
	if rules.Perturbation < 0 {
		rules.Perturbation = 0
	}
	return rules, nil
}

// PerturbationSource yields uniform values in [0,1). *rand.Rand satisfies it;
// tests inject fixed values.
type PerturbationSource interface {
	Float64() float64
}

// Scorer computes authenticity scores: base plus additive signal bonuses plus
// a uniform random perturbation, clamped to [0,100] after the perturbation.
type Scorer struct {
	rules ScoreRules

	mu  sync.Mutex
	rnd PerturbationSource
}

func NewScorer(rules ScoreRules, rnd PerturbationSource) *Scorer {
	return &Scorer{rules: rules, rnd: rnd}
}

func (s *Scorer) Score(meta domain.SubmissionMetadata) int {
	score := float64(s.rules.Base)

	if bonus, ok := s.rules.CategoryBonuses[meta.Category]; ok {
		score += float64(bonus)
	}
	score += float64(keywordBonus(s.rules.TitleKeywords, meta.Title))
	score += float64(keywordBonus(s.rules.DescriptionKeywords, meta.Description))
	score += float64(keywordBonus(s.rules.AttributionKeywords, meta.Attribution))

	score += s.perturbation()

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

func (s *Scorer) perturbation() float64 {
	if s.rules.Perturbation == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := float64(s.rules.Perturbation)
	return s.rnd.Float64()*2*r - r
}

func keywordBonus(keywords map[string]int, text string) int {
	lowered := strings.ToLower(text)
	total := 0
	for keyword, bonus := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			total += bonus
		}
	}
	return total
}

// StatusForScore maps a final score to its band. Lower bounds are inclusive.
func StatusForScore(score int) domain.SubmissionStatus {
	switch {
	case score >= 80:
		return domain.StatusVerified
	case score >= 70:
		return domain.StatusReview
	default:
		return domain.StatusRejected
	}
}
