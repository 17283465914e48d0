package model

import "testing"

func TestScore(t *testing.T) {
	cases := []struct {
		correct, total int
		want           float64
	}{
		{20, 25, 80},
		{0, 25, 0},
		{25, 25, 100},
		{0, 0, 0},
	}
	for _, tc := range cases {
		record := ExamRecord{TotalQuestions: tc.total, CorrectAnswers: tc.correct}
		if got := record.Score(); got != tc.want {
			t.Errorf("Score(%d/%d) = %v, want %v", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestCorrectAnswer(t *testing.T) {
	q := Question{Answer: []AnswerOption{
		{ID: 1, Correct: false},
		{ID: 2, Correct: true},
		{ID: 3, Correct: false},
	}}
	option := q.CorrectAnswer()
	if option == nil || option.ID != 2 {
		t.Errorf("CorrectAnswer() = %+v, want option 2", option)
	}

	empty := Question{}
	if empty.CorrectAnswer() != nil {
		t.Error("expected nil for a question without options")
	}
}
