package usecase

import (
	"fmt"
	"time"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

const (
	packDefaultDifficulty = "Beginner"
	packDefaultDuration   = "2-3 hours"
)

// BuildLearningPack synthesizes the derived pack for a submission that became
// verified. Templated content is interpolated from the submission metadata;
// every field is populated.
func BuildLearningPack(id string, sub *domain.Submission, score int, now time.Time) *domain.LearningPack {
	return &domain.LearningPack{
		ID:                  id,
		Title:               sub.Title,
		Category:            sub.Category,
		Description:         sub.Description,
		AuthenticityScore:   score,
		Difficulty:          packDefaultDifficulty,
		Duration:            packDefaultDuration,
		LearnersCount:       0,
		CreatedAt:           now,
		UploaderAttribution: sub.Attribution,
		MedicalDisclaimer:   sub.Category == domain.CategoryTraditionalMedicine,
		LearningObjectives: []domain.LearningObjective{
			{
				ID:          "1",
				Title:       "Understand Cultural Context",
				Description: fmt.Sprintf("Learn the significance of %s in Tamil heritage", sub.Title),
			},
			{
				ID:          "2",
				Title:       "Master Key Concepts",
				Description: "Grasp the fundamental principles and practices",
			},
			{
				ID:          "3",
				Title:       "Apply Knowledge",
				Description: "Practice and apply learned concepts respectfully",
			},
		},
		LearningSteps: []domain.LearningStep{
			{
				ID:       "1",
				Title:    fmt.Sprintf("Introduction to %s", sub.Title),
				Content:  fmt.Sprintf("Welcome to learning about %s. %s", sub.Title, sub.Description),
				Type:     "text",
				Duration: "15 minutes",
			},
			{
				ID:       "2",
				Title:    "Historical Background",
				Content:  "Explore the rich history and cultural significance of this practice.",
				Type:     "text",
				Duration: "20 minutes",
			},
			{
				ID:       "3",
				Title:    "Practical Application",
				Content:  "Learn how to respectfully practice and preserve this cultural knowledge.",
				Type:     "activity",
				Duration: "30 minutes",
			},
		},
		QuizQuestions: []domain.QuizQuestion{
			{
				ID:            "1",
				Question:      fmt.Sprintf("What is the cultural significance of %s?", sub.Title),
				Options:       []string{"Entertainment only", "Cultural preservation", "Commercial purpose", "Modern invention"},
				CorrectAnswer: 1,
			},
			{
				ID:            "2",
				Question:      "Why is it important to preserve traditional knowledge?",
				Options:       []string{"Historical value", "Cultural identity", "Educational benefit", "All of the above"},
				CorrectAnswer: 3,
			},
		},
		References: []domain.Reference{
			{
				ID:               "1",
				Title:            fmt.Sprintf("%s - Cultural Heritage", sub.Category),
				Source:           "Tamil Cultural Database",
				ReliabilityScore: 90,
			},
			{
				ID:               "2",
				Title:            "Traditional Knowledge Systems",
				Source:           "Academic Research",
				ReliabilityScore: 85,
			},
		},
	}
}
