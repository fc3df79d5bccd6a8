package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kalamitra/heritage-verify/internal/core/domain"
)

func newSubmission(id string) *domain.Submission {
	return &domain.Submission{
		ID:         id,
		Title:      "Kolam Patterns",
		Category:   "Folk Arts",
		Status:     domain.StatusProcessing,
		UploadedAt: time.Now().UTC(),
		FileName:   "kolam.jpg",
		FileSize:   512,
	}
}

func TestSubmissionStoreListMostRecentFirst(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, newSubmission(id)); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	subs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(subs))
	}
	if subs[0].ID != "c" || subs[1].ID != "b" || subs[2].ID != "a" {
		t.Fatalf("expected most-recent-first order, got %s %s %s", subs[0].ID, subs[1].ID, subs[2].ID)
	}
}

func TestSubmissionStoreGetUnknownID(t *testing.T) {
	store := NewSubmissionStore()

	_, err := store.GetByID(context.Background(), "nonexistent-id")
	if !domain.IsKind(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestSubmissionStoreRejectsDuplicateID(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()

	if err := store.Create(ctx, newSubmission("a")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, newSubmission("a")); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate id, got %v", err)
	}
}

func TestSubmissionStoreResolveIsAtomicAndIdempotent(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()
	if err := store.Create(ctx, newSubmission("a")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	now := time.Now().UTC()
	packID := "pack-1"
	res := domain.Resolution{
		Status:            domain.StatusVerified,
		AuthenticityScore: 91,
		VerifiedAt:        &now,
		PackID:            &packID,
	}
	if err := store.Resolve(ctx, "a", res); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	sub, err := store.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if sub.Status != domain.StatusVerified || sub.AuthenticityScore == nil || *sub.AuthenticityScore != 91 {
		t.Fatalf("resolution not applied: %+v", sub)
	}
	if sub.VerifiedAt == nil || sub.PackID == nil || *sub.PackID != packID {
		t.Fatalf("verified fields not applied: %+v", sub)
	}

	// A second resolution must not re-score.
	err = store.Resolve(ctx, "a", domain.Resolution{Status: domain.StatusRejected, AuthenticityScore: 10})
	if !domain.IsKind(err, domain.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	sub, _ = store.GetByID(ctx, "a")
	if sub.Status != domain.StatusVerified || *sub.AuthenticityScore != 91 {
		t.Fatalf("terminal state mutated by second resolve: %+v", sub)
	}
}

func TestSubmissionStoreResolveUnknownID(t *testing.T) {
	store := NewSubmissionStore()
	err := store.Resolve(context.Background(), "ghost", domain.Resolution{Status: domain.StatusRejected, AuthenticityScore: 50})
	if !domain.IsKind(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestSubmissionStoreReadsDoNotAliasInternalState(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()
	if err := store.Create(ctx, newSubmission("a")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sub, _ := store.GetByID(ctx, "a")
	sub.Status = domain.StatusRejected

	again, _ := store.GetByID(ctx, "a")
	if again.Status != domain.StatusProcessing {
		t.Fatalf("caller mutation leaked into the store")
	}
}

func TestSubmissionStoreConcurrentCreates(t *testing.T) {
	store := NewSubmissionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := store.Create(ctx, newSubmission(fmt.Sprintf("sub-%d", n))); err != nil {
				t.Errorf("Create() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	subs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(subs) != 50 {
		t.Fatalf("expected 50 submissions, got %d", len(subs))
	}
	seen := make(map[string]bool, len(subs))
	for _, sub := range subs {
		if seen[sub.ID] {
			t.Fatalf("duplicate id %s", sub.ID)
		}
		seen[sub.ID] = true
	}
}

func TestPackStoreRoundTrip(t *testing.T) {
	store := NewPackStore()
	ctx := context.Background()

	pack := &domain.LearningPack{ID: "p1", Title: "Kolam Patterns", Category: "Folk Arts", AuthenticityScore: 88}
	if err := store.Create(ctx, pack); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.AuthenticityScore != 88 {
		t.Fatalf("unexpected pack: %+v", got)
	}

	if _, err := store.GetByID(ctx, "missing"); !domain.IsKind(err, domain.ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}

	packs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(packs) != 1 {
		t.Fatalf("expected 1 pack, got %d", len(packs))
	}
}
