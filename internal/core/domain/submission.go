package domain

import "time"

type SubmissionStatus string

const (
	StatusProcessing SubmissionStatus = "processing"
	StatusVerified   SubmissionStatus = "verified"
	StatusReview     SubmissionStatus = "review"
	StatusRejected   SubmissionStatus = "rejected"
)

// Terminal reports whether a submission has reached a final status.
func (s SubmissionStatus) Terminal() bool {
	switch s {
	case StatusVerified, StatusReview, StatusRejected:
		return true
	}
	return false
}

type Submission struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Category          string           `json:"category"`
	Description       string           `json:"description"`
	Attribution       string           `json:"attribution"`
	Status            SubmissionStatus `json:"status"`
	AuthenticityScore *int             `json:"authenticity_score"`
	UploadedAt        time.Time        `json:"uploaded_at"`
	VerifiedAt        *time.Time       `json:"verified_at"`
	PackID            *string          `json:"pack_id"`
	FileName          string           `json:"file_name"`
	FileSize          int64            `json:"file_size"`
}

// SubmissionMetadata is the caller-supplied descriptive part of a submission.
// All fields are required.
type SubmissionMetadata struct {
	Title       string
	Category    string
	Description string
	Attribution string
}

// PayloadDescriptor describes the uploaded payload. The payload bytes
// themselves are not retained beyond name and size.
type PayloadDescriptor struct {
	FileName string
	FileSize int64
}

// Resolution is the terminal state applied to a submission in a single write,
// so readers never observe a terminal status without its score.
type Resolution struct {
	Status            SubmissionStatus
	AuthenticityScore int
	VerifiedAt        *time.Time
	PackID            *string
}
