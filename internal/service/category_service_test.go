package service

import (
	"context"
	"math"
	"testing"

	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

func intp(v int) *int { return &v }

func progressRow(questionID string, selected *int, answered bool) model.ProgressRecord {
	return model.ProgressRecord{
		UserID:         7,
		QuestionID:     questionID,
		SelectedAnswer: selected,
		Answered:       answered,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate(t *testing.T) {
	questions := []model.Question{
		bankQuestion("q1", 2, "law"),
		bankQuestion("q2", 1, "law"),
		bankQuestion("q3", 3, "traffic-sign"),
		bankQuestion("q4", 4, "law", "situation"),
	}
	progress := []model.ProgressRecord{
		progressRow("q1", intp(2), true),  // correct
		progressRow("q2", intp(3), false), // selected but not revealed
		progressRow("q4", intp(1), true),  // wrong
	}

	svc := NewCategoryService(&fakeQuestionRepo{}, ProgressSource{}, NewEvaluationService())

	law := svc.Aggregate(questions, progress, Categories[0])
	if law.Total != 3 {
		t.Errorf("law total = %d, want 3", law.Total)
	}
	if law.Answered != 2 {
		t.Errorf("law answered = %d, want 2 (unrevealed selections must not count)", law.Answered)
	}
	if law.Correct != 1 {
		t.Errorf("law correct = %d, want 1", law.Correct)
	}
	if !almostEqual(law.Accuracy, 50) {
		t.Errorf("law accuracy = %v, want 50", law.Accuracy)
	}
	if !almostEqual(law.Completion, 200.0/3) {
		t.Errorf("law completion = %v, want %v", law.Completion, 200.0/3)
	}

	// q4 is counted again under its second category.
	situation := svc.Aggregate(questions, progress, Categories[2])
	if situation.Total != 1 || situation.Answered != 1 || situation.Correct != 0 {
		t.Errorf("situation = %+v, want total 1 answered 1 correct 0", situation)
	}
	if !almostEqual(situation.Accuracy, 0) {
		t.Errorf("situation accuracy = %v, want 0", situation.Accuracy)
	}
}

func TestAggregateZeroDenominators(t *testing.T) {
	svc := NewCategoryService(&fakeQuestionRepo{}, ProgressSource{}, NewEvaluationService())

	stat := svc.Aggregate(nil, nil, Categories[1])
	if stat.Accuracy != 0 || stat.Completion != 0 {
		t.Errorf("empty category must report zeros, got accuracy=%v completion=%v", stat.Accuracy, stat.Completion)
	}

	// Questions but no answers: completion defined, accuracy zero.
	questions := []model.Question{bankQuestion("q1", 1, "traffic-sign")}
	stat = svc.Aggregate(questions, nil, Categories[1])
	if stat.Total != 1 || stat.Accuracy != 0 || stat.Completion != 0 {
		t.Errorf("unanswered category = %+v, want total 1 and zero rates", stat)
	}
}

func TestTopicStatsOrder(t *testing.T) {
	questions := []model.Question{
		bankQuestion("q1", 1, "law"),
		bankQuestion("q2", 1, "situation"),
	}
	source := ProgressSource{
		Persistent: repository.NewMemoryProgressRepository(),
		Guest:      repository.NewMemoryProgressRepository(),
	}
	svc := NewCategoryService(&fakeQuestionRepo{questions: questions}, source, NewEvaluationService())

	stats, err := svc.TopicStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("TopicStats: %v", err)
	}
	if len(stats) != len(Categories) {
		t.Fatalf("expected %d categories, got %d", len(Categories), len(stats))
	}
	for i, category := range Categories {
		if stats[i].Category != category.Key {
			t.Errorf("stats[%d].Category = %q, want %q", i, stats[i].Category, category.Key)
		}
	}
}
