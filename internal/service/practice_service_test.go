package service

import (
	"context"
	"errors"
	"testing"

	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

type fakeQuestionRepo struct {
	questions []model.Question
	err       error
}

func (f *fakeQuestionRepo) FindAll(context.Context) ([]model.Question, error) {
	return f.questions, f.err
}

func (f *fakeQuestionRepo) FindByID(_ context.Context, id string) (*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.questions {
		if f.questions[i].ID == id {
			return &f.questions[i], nil
		}
	}
	return nil, errors.New("question not found")
}

func (f *fakeQuestionRepo) FindByCategory(_ context.Context, category string) ([]model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Question
	for _, q := range f.questions {
		if q.HasCategory(category) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	f.questions = append(f.questions, *q)
	return nil
}

func (f *fakeQuestionRepo) Update(context.Context, *model.Question) error { return nil }
func (f *fakeQuestionRepo) Delete(context.Context, string) error          { return nil }

func newPracticeFixture(questions ...model.Question) (PracticeService, ProgressSource) {
	source := ProgressSource{
		Persistent: repository.NewMemoryProgressRepository(),
		Guest:      repository.NewMemoryProgressRepository(),
	}
	svc := NewPracticeService(&fakeQuestionRepo{questions: questions}, source, NewEvaluationService())
	return svc, source
}

func TestQuestionsHideAnswerKey(t *testing.T) {
	svc, _ := newPracticeFixture(bankQuestion("q1", 2, "law"), bankQuestion("q2", 1, "traffic-sign"))

	all, err := svc.Questions(context.Background(), "")
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(all))
	}
	if len(all[0].Answer) != 4 {
		t.Fatalf("expected 4 options, got %d", len(all[0].Answer))
	}

	law, err := svc.Questions(context.Background(), "law")
	if err != nil {
		t.Fatalf("Questions(law): %v", err)
	}
	if len(law) != 1 || law[0].ID != "q1" {
		t.Errorf("expected only q1 in law category, got %+v", law)
	}
}

func TestSelectThenReveal(t *testing.T) {
	svc, _ := newPracticeFixture(bankQuestion("q1", 2))
	ctx := context.Background()
	const userID = 7

	item, err := svc.SelectOption(ctx, userID, "q1", 3)
	if err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if item.Answered {
		t.Error("selection must not mark the question answered")
	}
	if item.IsCorrect != nil {
		t.Error("selection must not disclose correctness")
	}
	if item.SelectedAnswer == nil || *item.SelectedAnswer != 3 {
		t.Errorf("expected selected answer 3, got %v", item.SelectedAnswer)
	}

	// Changing the selection before reveal is allowed.
	item, err = svc.SelectOption(ctx, userID, "q1", 2)
	if err != nil {
		t.Fatalf("SelectOption (change): %v", err)
	}
	if *item.SelectedAnswer != 2 {
		t.Errorf("expected selected answer 2, got %d", *item.SelectedAnswer)
	}

	item, err = svc.RevealAnswer(ctx, userID, "q1")
	if err != nil {
		t.Fatalf("RevealAnswer: %v", err)
	}
	if !item.Answered {
		t.Error("reveal must mark the question answered")
	}
	if item.IsCorrect == nil || !*item.IsCorrect {
		t.Errorf("expected correct result, got %v", item.IsCorrect)
	}

	if _, err := svc.SelectOption(ctx, userID, "q1", 1); !errors.Is(err, ErrQuestionRevealed) {
		t.Errorf("expected ErrQuestionRevealed after reveal, got %v", err)
	}

	// Reveal is idempotent and the selection is untouched.
	item, err = svc.RevealAnswer(ctx, userID, "q1")
	if err != nil {
		t.Fatalf("RevealAnswer (repeat): %v", err)
	}
	if !item.Answered || item.SelectedAnswer == nil || *item.SelectedAnswer != 2 {
		t.Errorf("repeat reveal changed state: %+v", item)
	}
}

func TestRevealWithoutSelection(t *testing.T) {
	svc, _ := newPracticeFixture(bankQuestion("q1", 2))

	item, err := svc.RevealAnswer(context.Background(), 7, "q1")
	if err != nil {
		t.Fatalf("RevealAnswer: %v", err)
	}
	if !item.Answered {
		t.Error("expected question to be answered")
	}
	if item.SelectedAnswer != nil {
		t.Errorf("expected null selection, got %v", *item.SelectedAnswer)
	}
	if item.IsCorrect == nil || *item.IsCorrect {
		t.Errorf("reveal without selection must count as incorrect, got %v", item.IsCorrect)
	}
}

func TestResetProgress(t *testing.T) {
	svc, _ := newPracticeFixture(bankQuestion("q1", 1), bankQuestion("q2", 2))
	ctx := context.Background()
	const userID = 7

	if _, err := svc.SelectOption(ctx, userID, "q1", 1); err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if _, err := svc.RevealAnswer(ctx, userID, "q2"); err != nil {
		t.Fatalf("RevealAnswer: %v", err)
	}

	deleted, err := svc.ResetProgress(ctx, userID)
	if err != nil {
		t.Fatalf("ResetProgress: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted records, got %d", deleted)
	}

	items, err := svc.Progress(ctx, userID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty progress after reset, got %d items", len(items))
	}

	// The question is selectable again, not stuck in the revealed state.
	if _, err := svc.SelectOption(ctx, userID, "q2", 1); err != nil {
		t.Errorf("SelectOption after reset: %v", err)
	}
}

func TestProgressSkipsUnknownQuestions(t *testing.T) {
	svc, source := newPracticeFixture(bankQuestion("q1", 1))
	ctx := context.Background()
	const userID = 7

	if _, err := svc.SelectOption(ctx, userID, "q1", 1); err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	answered := true
	if _, err := source.For(userID).Upsert(ctx, userID, "gone", model.ProgressFields{Answered: &answered}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	items, err := svc.Progress(ctx, userID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if len(items) != 1 || items[0].QuestionID != "q1" {
		t.Errorf("expected only q1 in the snapshot, got %+v", items)
	}
}

func TestGuestProgressIsIsolated(t *testing.T) {
	svc, source := newPracticeFixture(bankQuestion("q1", 1))
	ctx := context.Background()

	if _, err := svc.SelectOption(ctx, GuestUserID, "q1", 1); err != nil {
		t.Fatalf("SelectOption (guest): %v", err)
	}
	if _, err := svc.SelectOption(ctx, 7, "q1", 2); err != nil {
		t.Fatalf("SelectOption (user): %v", err)
	}

	guest, err := source.Guest.FindByUser(ctx, GuestUserID)
	if err != nil {
		t.Fatalf("FindByUser (guest): %v", err)
	}
	persistent, err := source.Persistent.FindByUser(ctx, 7)
	if err != nil {
		t.Fatalf("FindByUser (persistent): %v", err)
	}
	if len(guest) != 1 || len(persistent) != 1 {
		t.Fatalf("expected one record per store, got guest=%d persistent=%d", len(guest), len(persistent))
	}
	if *guest[0].SelectedAnswer == *persistent[0].SelectedAnswer {
		t.Error("guest and persistent records must not share state")
	}
}
