package service

import (
	"strconv"
	"strings"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

// EvaluationService decides whether a selected option answers a question
// correctly. Pure lookup against the question's answer key; every form of
// missing or invalid selection evaluates to incorrect, never to an error.
type EvaluationService interface {
	IsCorrect(question *model.Question, answerID int) bool
	IsCorrectID(question *model.Question, selected string) bool
	IsCorrectSelection(question *model.Question, selected *int) bool
}

type evaluationService struct{}

func NewEvaluationService() EvaluationService {
	return &evaluationService{}
}

func (e *evaluationService) IsCorrect(question *model.Question, answerID int) bool {
	if question == nil {
		return false
	}
	for _, option := range question.Answer {
		if option.ID == answerID {
			return option.Correct
		}
	}
	return false
}

// IsCorrectID accepts the string form answer ids travel in inside exam
// details. Comparison is numeric, so "2" matches option id 2 regardless of
// how the caller serialized it.
func (e *evaluationService) IsCorrectID(question *model.Question, selected string) bool {
	answerID, err := strconv.Atoi(strings.TrimSpace(selected))
	if err != nil {
		return false
	}
	return e.IsCorrect(question, answerID)
}

// IsCorrectSelection evaluates a progress record's selection, where nil
// means the answer was revealed without ever picking an option.
func (e *evaluationService) IsCorrectSelection(question *model.Question, selected *int) bool {
	if selected == nil {
		return false
	}
	return e.IsCorrect(question, *selected)
}
