package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

// CategoryInfo is one entry of the fixed topic set.
type CategoryInfo struct {
	Key  string
	Name string
	Icon string
}

// Categories is the topic catalogue. Question data references the keys;
// names and icons are presentation metadata for the topic cards.
var Categories = []CategoryInfo{
	{Key: "law", Name: "Traffic Law", Icon: "👮"},
	{Key: "traffic-sign", Name: "Traffic Signs", Icon: "🚸"},
	{Key: "situation", Name: "Road Situations", Icon: "🚛"},
}

// CategoryService derives per-topic completion and accuracy. Everything is
// recomputed on demand from the two raw record lists; nothing is cached.
type CategoryService interface {
	Aggregate(questions []model.Question, progress []model.ProgressRecord, category CategoryInfo) dto.CategoryStatDTO
	TopicStats(ctx context.Context, userID int) ([]dto.CategoryStatDTO, error)
}

type categoryService struct {
	questionRepo repository.QuestionRepository
	progress     ProgressSource
	evaluator    EvaluationService
}

func NewCategoryService(questionRepo repository.QuestionRepository, progress ProgressSource, evaluator EvaluationService) CategoryService {
	return &categoryService{
		questionRepo: questionRepo,
		progress:     progress,
		evaluator:    evaluator,
	}
}

// Aggregate computes one category's stat from raw lists. Progress rows
// only count once answered; correctness is evaluated against the current
// answer key. Empty denominators yield zero, not NaN.
func (s *categoryService) Aggregate(questions []model.Question, progress []model.ProgressRecord, category CategoryInfo) dto.CategoryStatDTO {
	inCategory := make(map[string]*model.Question)
	for i := range questions {
		if questions[i].HasCategory(category.Key) {
			inCategory[questions[i].ID] = &questions[i]
		}
	}

	answered, correct := 0, 0
	for i := range progress {
		if !progress[i].Answered {
			continue
		}
		question, ok := inCategory[progress[i].QuestionID]
		if !ok {
			continue
		}
		answered++
		if s.evaluator.IsCorrectSelection(question, progress[i].SelectedAnswer) {
			correct++
		}
	}

	stat := dto.CategoryStatDTO{
		Category: category.Key,
		Name:     category.Name,
		Icon:     category.Icon,
		Total:    len(inCategory),
		Answered: answered,
		Correct:  correct,
	}
	if answered > 0 {
		stat.Accuracy = float64(correct) / float64(answered) * 100
	}
	if stat.Total > 0 {
		stat.Completion = float64(answered) / float64(stat.Total) * 100
	}
	return stat
}

// TopicStats fetches the raw lists once and aggregates every catalogue
// category, in catalogue order.
func (s *categoryService) TopicStats(ctx context.Context, userID int) ([]dto.CategoryStatDTO, error) {
	questions, err := s.questionRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch questions for topic stats")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	progress, err := s.progress.For(userID).FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Failed to fetch progress for topic stats")
		return nil, fmt.Errorf("error fetching progress: %w", err)
	}

	stats := make([]dto.CategoryStatDTO, 0, len(Categories))
	for _, category := range Categories {
		stats = append(stats, s.Aggregate(questions, progress, category))
	}
	return stats, nil
}
