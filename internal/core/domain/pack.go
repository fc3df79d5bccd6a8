package domain

import "time"

// CategoryTraditionalMedicine triggers the medical disclaimer on derived packs.
const CategoryTraditionalMedicine = "Traditional Medicine"

type LearningObjective struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type LearningStep struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type Reference struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Source           string `json:"source"`
	URL              string `json:"url,omitempty"`
	ReliabilityScore int    `json:"reliability_score"`
}

// LearningPack is derived from a submission the moment it becomes verified.
// It is created exactly once and never mutated afterwards.
type LearningPack struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Category            string              `json:"category"`
	Description         string              `json:"description"`
	AuthenticityScore   int                 `json:"authenticity_score"`
	Difficulty          string              `json:"difficulty"`
	Duration            string              `json:"duration"`
	LearnersCount       int                 `json:"learners_count"`
	CreatedAt           time.Time           `json:"created_at"`
	UploaderAttribution string              `json:"uploader_attribution"`
	LearningObjectives  []LearningObjective `json:"learning_objectives"`
	LearningSteps       []LearningStep      `json:"learning_steps"`
	QuizQuestions       []QuizQuestion      `json:"quiz_questions"`
	References          []Reference         `json:"references"`
	MedicalDisclaimer   bool                `json:"medical_disclaimer"`
}
