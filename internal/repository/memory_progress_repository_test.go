package repository

import (
	"context"
	"testing"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

func TestMemoryUpsertSemantics(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()
	answer := 2

	record, err := repo.Upsert(ctx, 0, "q1", model.ProgressFields{SelectedAnswer: &answer})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if record.ID == "" || record.CreatedAt == "" {
		t.Errorf("create must assign id and timestamps, got %+v", record)
	}

	answered := true
	updated, err := repo.Upsert(ctx, 0, "q1", model.ProgressFields{Answered: &answered})
	if err != nil {
		t.Fatalf("Upsert (update): %v", err)
	}
	if updated.ID != record.ID {
		t.Errorf("second upsert for the same pair created a new record")
	}
	if !updated.Answered || updated.SelectedAnswer == nil || *updated.SelectedAnswer != 2 {
		t.Errorf("update must merge fields, got %+v", updated)
	}

	all, err := repo.FindByUser(ctx, 0)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected one record, got %d", len(all))
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()
	answer := 1

	record, err := repo.Upsert(ctx, 0, "q1", model.ProgressFields{SelectedAnswer: &answer})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	record.Answered = true

	stored, err := repo.FindByUserAndQuestion(ctx, 0, "q1")
	if err != nil {
		t.Fatalf("FindByUserAndQuestion: %v", err)
	}
	if stored.Answered {
		t.Error("mutating a returned record must not touch the stored one")
	}
}

func TestMemoryDeleteAllForUser(t *testing.T) {
	repo := NewMemoryProgressRepository()
	ctx := context.Background()
	answer := 1

	for _, q := range []string{"q1", "q2"} {
		if _, err := repo.Upsert(ctx, 0, q, model.ProgressFields{SelectedAnswer: &answer}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	if _, err := repo.Upsert(ctx, 5, "q1", model.ProgressFields{SelectedAnswer: &answer}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	deleted, err := repo.DeleteAllForUser(ctx, 0)
	if err != nil {
		t.Fatalf("DeleteAllForUser: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	remaining, _ := repo.FindByUser(ctx, 5)
	if len(remaining) != 1 {
		t.Errorf("other user's records must survive, got %d", len(remaining))
	}
}
