// Package memory holds the in-process system of record: mutex-guarded maps
// with a single writer (the verification pipeline) and any number of readers.
package memory

import (
	"context"
	"sync"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

type SubmissionStore struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Submission
	order []string
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{byID: make(map[string]*domain.Submission)}
}

func (s *SubmissionStore) Create(_ context.Context, sub *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[sub.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "create submission", errDuplicateID(sub.ID))
	}
	copySub := *sub
	s.byID[sub.ID] = &copySub
	s.order = append(s.order, sub.ID)
	return nil
}

func (s *SubmissionStore) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	copySub := *sub
	return &copySub, nil
}

// List returns all submissions, most recently created first.
func (s *SubmissionStore) List(_ context.Context) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Submission, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.byID[s.order[i]])
	}
	return out, nil
}

// Resolve applies the terminal state in one critical section so readers never
// observe a terminal status without its score.
func (s *SubmissionStore) Resolve(_ context.Context, id string, res domain.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byID[id]
	if !ok {
		return domain.ErrSubmissionNotFound
	}
	if sub.Status != domain.StatusProcessing {
		return domain.ErrAlreadyResolved
	}

	score := res.AuthenticityScore
	sub.Status = res.Status
	sub.AuthenticityScore = &score
	sub.VerifiedAt = res.VerifiedAt
	sub.PackID = res.PackID
	return nil
}

type PackStore struct {
	mu    sync.RWMutex
	byID  map[string]*domain.LearningPack
	order []string
}

func NewPackStore() *PackStore {
	return &PackStore{byID: make(map[string]*domain.LearningPack)}
}

func (s *PackStore) Create(_ context.Context, pack *domain.LearningPack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[pack.ID]; exists {
		return domain.WrapError(domain.ErrInvalidInput, "create pack", errDuplicateID(pack.ID))
	}
	copyPack := *pack
	s.byID[pack.ID] = &copyPack
	s.order = append(s.order, pack.ID)
	return nil
}

func (s *PackStore) GetByID(_ context.Context, id string) (*domain.LearningPack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pack, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPackNotFound
	}
	copyPack := *pack
	return &copyPack, nil
}

func (s *PackStore) List(_ context.Context) ([]domain.LearningPack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LearningPack, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out, nil
}

type errDuplicateID string

func (e errDuplicateID) Error() string { return "duplicate id: " + string(e) }
