package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

// GuestUserID marks an unauthenticated user. Guest progress runs the same
// state machine against the in-memory repository and vanishes on restart.
const GuestUserID = 0

// ErrQuestionRevealed rejects selection changes on a revealed question;
// nothing transitions out of the revealed state short of a full reset.
var ErrQuestionRevealed = errors.New("question already revealed")

// ProgressSource picks the persisted or the volatile progress repository
// for a given user identity.
type ProgressSource struct {
	Persistent repository.ProgressRepository
	Guest      *repository.MemoryProgressRepository
}

func NewProgressSource(persistent repository.ProgressRepository) ProgressSource {
	return ProgressSource{
		Persistent: persistent,
		Guest:      repository.NewMemoryProgressRepository(),
	}
}

func (ps ProgressSource) For(userID int) repository.ProgressRepository {
	if userID == GuestUserID {
		return ps.Guest
	}
	return ps.Persistent
}

// PracticeService runs the per-question progress lifecycle:
// unanswered -> selected -> revealed.
type PracticeService interface {
	Questions(ctx context.Context, category string) ([]dto.QuestionDTO, error)
	Progress(ctx context.Context, userID int) ([]dto.ProgressItemDTO, error)
	SelectOption(ctx context.Context, userID int, questionID string, answerID int) (*dto.ProgressItemDTO, error)
	RevealAnswer(ctx context.Context, userID int, questionID string) (*dto.ProgressItemDTO, error)
	ResetProgress(ctx context.Context, userID int) (int, error)
}

type practiceService struct {
	questionRepo repository.QuestionRepository
	progress     ProgressSource
	evaluator    EvaluationService
}

func NewPracticeService(questionRepo repository.QuestionRepository, progress ProgressSource, evaluator EvaluationService) PracticeService {
	return &practiceService{
		questionRepo: questionRepo,
		progress:     progress,
		evaluator:    evaluator,
	}
}

// Questions lists the bank, optionally narrowed to one category. The
// answer key stays server-side.
func (s *practiceService) Questions(ctx context.Context, category string) ([]dto.QuestionDTO, error) {
	var (
		questions []model.Question
		err       error
	)
	if category == "" {
		questions, err = s.questionRepo.FindAll(ctx)
	} else {
		questions, err = s.questionRepo.FindByCategory(ctx, category)
	}
	if err != nil {
		log.Error().Err(err).Str("category", category).Msg("Failed to fetch questions")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}

	dtos := make([]dto.QuestionDTO, 0, len(questions))
	for i := range questions {
		dtos = append(dtos, questionToDTO(&questions[i]))
	}
	return dtos, nil
}

// Progress returns the user's per-question snapshot. Records pointing at
// questions no longer in the bank are skipped rather than surfaced as
// errors.
func (s *practiceService) Progress(ctx context.Context, userID int) ([]dto.ProgressItemDTO, error) {
	records, err := s.progress.For(userID).FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Failed to fetch progress")
		return nil, fmt.Errorf("error fetching progress: %w", err)
	}

	questions, err := s.questionRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch question bank for progress view")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	bank := questionsByID(questions)

	items := make([]dto.ProgressItemDTO, 0, len(records))
	for i := range records {
		question, ok := bank[records[i].QuestionID]
		if !ok {
			continue
		}
		items = append(items, s.progressItem(&records[i], question))
	}
	return items, nil
}

// SelectOption records (or changes) the user's choice without revealing
// correctness. Re-selecting the same option is observably a no-op, though
// it still issues the idempotent upsert.
func (s *practiceService) SelectOption(ctx context.Context, userID int, questionID string, answerID int) (*dto.ProgressItemDTO, error) {
	repo := s.progress.For(userID)

	existing, err := repo.FindByUserAndQuestion(ctx, userID, questionID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Str("questionID", questionID).Msg("Failed to look up progress record")
		return nil, fmt.Errorf("error reading progress: %w", err)
	}
	if existing != nil && existing.Answered {
		return nil, ErrQuestionRevealed
	}

	record, err := repo.Upsert(ctx, userID, questionID, model.ProgressFields{SelectedAnswer: &answerID})
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Str("questionID", questionID).Msg("Failed to persist selection")
		return nil, fmt.Errorf("error saving selection: %w", err)
	}

	item := s.progressItem(record, nil)
	return &item, nil
}

// RevealAnswer flips the question into its terminal answered state and
// discloses correctness. With no prior selection the record is created
// answered with a null selection, which every downstream computation
// counts as incorrect. Revealing twice is idempotent.
func (s *practiceService) RevealAnswer(ctx context.Context, userID int, questionID string) (*dto.ProgressItemDTO, error) {
	repo := s.progress.For(userID)

	answered := true
	record, err := repo.Upsert(ctx, userID, questionID, model.ProgressFields{Answered: &answered})
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Str("questionID", questionID).Msg("Failed to persist reveal")
		return nil, fmt.Errorf("error saving reveal: %w", err)
	}

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		// The reveal is already persisted; report state without correctness.
		log.Warn().Err(err).Str("questionID", questionID).Msg("Question lookup failed after reveal")
		question = nil
	}

	item := s.progressItem(record, question)
	return &item, nil
}

// ResetProgress deletes every record of the user, returning all questions
// to the unanswered state. Returns the number of deleted records.
func (s *practiceService) ResetProgress(ctx context.Context, userID int) (int, error) {
	deleted, err := s.progress.For(userID).DeleteAllForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Int("deleted", deleted).Msg("Progress reset failed partway")
		return deleted, fmt.Errorf("error resetting progress: %w", err)
	}
	log.Info().Int("userID", userID).Int("deleted", deleted).Msg("Progress reset")
	return deleted, nil
}

func (s *practiceService) progressItem(record *model.ProgressRecord, question *model.Question) dto.ProgressItemDTO {
	item := dto.ProgressItemDTO{
		QuestionID:     record.QuestionID,
		SelectedAnswer: record.SelectedAnswer,
		Answered:       record.Answered,
	}
	if record.Answered && question != nil {
		correct := s.evaluator.IsCorrectSelection(question, record.SelectedAnswer)
		item.IsCorrect = &correct
	}
	return item
}

func questionToDTO(q *model.Question) dto.QuestionDTO {
	options := make([]dto.AnswerOptionDTO, 0, len(q.Answer))
	for _, option := range q.Answer {
		options = append(options, dto.AnswerOptionDTO{ID: option.ID, Content: option.Content})
	}
	return dto.QuestionDTO{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     options,
		Categories: q.Categories,
		Compulsory: q.Compulsory,
		ImgURL:     q.ImgURL,
	}
}

func questionsByID(questions []model.Question) map[string]*model.Question {
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	return byID
}
