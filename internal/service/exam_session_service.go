package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/config"
	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

var (
	ErrSessionNotFound      = errors.New("exam session not found")
	ErrSessionSubmitted     = errors.New("exam session already submitted")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
)

// staleSessionGrace is how long past its deadline an unsubmitted session
// survives before the registry sweeps it.
const staleSessionGrace = time.Hour

// examSession is one live trial attempt. All per-session state is guarded
// by mu; answers are volatile and never touch the progress store.
type examSession struct {
	mu         sync.Mutex
	id         string
	userID     int
	examID     int
	questions  []model.Question
	selections map[string]int // questionID -> chosen option id
	startedAt  time.Time
	deadline   time.Time
	submitted  bool
	record     *model.ExamRecord
}

// ExamSessionService manages timed trial exams: a random draw, volatile
// in-session answers, and a single write-once exam record at submission.
type ExamSessionService interface {
	StartSession(ctx context.Context, userID, examID int) (*dto.ExamSessionDTO, error)
	Session(sessionID string) (*dto.ExamSessionDTO, error)
	SelectAnswer(sessionID, questionID string, answerID int) error
	Submit(ctx context.Context, sessionID string, confirmed bool) (*dto.ExamResultDTO, error)
	Abandon(sessionID string, confirmed bool) error
	History(ctx context.Context, userID int) ([]dto.ExamSummaryDTO, error)
	Detail(ctx context.Context, recordID string) (*dto.ExamDetailDTO, error)
}

type examSessionService struct {
	questionRepo repository.QuestionRepository
	examRepo     repository.ExamRepository
	evaluator    EvaluationService
	cfg          *config.Config

	mu       sync.Mutex
	sessions map[string]*examSession
	now      func() time.Time
}

func NewExamSessionService(questionRepo repository.QuestionRepository, examRepo repository.ExamRepository, evaluator EvaluationService, cfg *config.Config) ExamSessionService {
	return &examSessionService{
		questionRepo: questionRepo,
		examRepo:     examRepo,
		evaluator:    evaluator,
		cfg:          cfg,
		sessions:     make(map[string]*examSession),
		now:          time.Now,
	}
}

// StartSession draws the configured number of questions uniformly without
// replacement; a short bank is drawn whole. The countdown is informational
// only: hitting zero locks nothing and submits nothing.
func (s *examSessionService) StartSession(ctx context.Context, userID, examID int) (*dto.ExamSessionDTO, error) {
	bank, err := s.questionRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("StartSession: failed to fetch question bank")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}

	questions := drawQuestions(bank, s.cfg.Exam.QuestionCount)
	now := s.now()

	session := &examSession{
		id:         uuid.NewString(),
		userID:     userID,
		examID:     examID,
		questions:  questions,
		selections: make(map[string]int),
		startedAt:  now,
		deadline:   now.Add(s.cfg.Exam.Duration),
	}

	s.mu.Lock()
	s.sweepStale(now)
	s.sessions[session.id] = session
	s.mu.Unlock()

	log.Info().Str("sessionID", session.id).Int("userID", userID).Int("examID", examID).Int("questions", len(questions)).Msg("Exam session started")
	return s.sessionDTO(session), nil
}

func (s *examSessionService) Session(sessionID string) (*dto.ExamSessionDTO, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionDTO(session), nil
}

// SelectAnswer overwrites the in-session choice for a question. Only legal
// while the session is in progress.
func (s *examSessionService) SelectAnswer(sessionID, questionID string, answerID int) error {
	session, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.submitted {
		return ErrSessionSubmitted
	}
	session.selections[questionID] = answerID
	return nil
}

// Submit scores the session and archives it as one exam record. Without
// confirmation nothing happens and the session stays in progress, exactly
// as if the user dismissed the prompt. A failed store write also leaves
// the session in progress so the user can retry; only a persisted record
// flips the session to submitted, which is terminal.
func (s *examSessionService) Submit(ctx context.Context, sessionID string, confirmed bool) (*dto.ExamResultDTO, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.submitted {
		return nil, ErrSessionSubmitted
	}

	record := s.scoreSession(session)
	if err := s.examRepo.Create(ctx, record); err != nil {
		log.Error().Err(err).Str("sessionID", session.id).Msg("Submit: failed to persist exam record, session stays open")
		return nil, fmt.Errorf("error saving exam record: %w", err)
	}

	session.submitted = true
	session.record = record
	log.Info().Str("sessionID", session.id).Str("recordID", record.ID).Int("correct", record.CorrectAnswers).Int("total", record.TotalQuestions).Msg("Exam submitted")

	return examResultDTO(record), nil
}

// Abandon discards an in-progress session without writing anything. Like
// submission it demands explicit confirmation; without it the session is
// untouched.
func (s *examSessionService) Abandon(sessionID string, confirmed bool) error {
	session, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	session.mu.Lock()
	wasSubmitted := session.submitted
	session.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	log.Info().Str("sessionID", sessionID).Bool("wasSubmitted", wasSubmitted).Msg("Exam session discarded")
	return nil
}

// History lists the user's archived exams, newest first.
func (s *examSessionService) History(ctx context.Context, userID int) ([]dto.ExamSummaryDTO, error) {
	records, err := s.examRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Failed to fetch exam history")
		return nil, fmt.Errorf("error fetching exam history: %w", err)
	}

	summaries := make([]dto.ExamSummaryDTO, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		summaries = append(summaries, examSummaryDTO(&records[i]))
	}
	return summaries, nil
}

// Detail joins one archived exam with the current question bank for the
// review view. Questions that have since been removed from the bank are
// skipped; the frozen details still carry their outcome.
func (s *examSessionService) Detail(ctx context.Context, recordID string) (*dto.ExamDetailDTO, error) {
	record, err := s.examRepo.FindByID(ctx, recordID)
	if err != nil {
		log.Error().Err(err).Str("recordID", recordID).Msg("Failed to fetch exam record")
		return nil, fmt.Errorf("exam record not found: %w", err)
	}

	bank, err := s.questionRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch question bank for exam detail")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	byID := questionsByID(bank)

	detail := dto.ExamDetailDTO{ExamSummaryDTO: examSummaryDTO(record)}
	if err := copier.Copy(&detail.Details, record.Details); err != nil {
		return nil, fmt.Errorf("error preparing exam detail: %w", err)
	}
	for _, d := range record.Details {
		if question, ok := byID[d.QuestionID]; ok {
			detail.Questions = append(detail.Questions, questionToDTO(question))
		}
	}
	return &detail, nil
}

func (s *examSessionService) lookup(sessionID string) (*examSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// scoreSession computes the frozen result. Must be called with the session
// lock held. A question with no recorded selection scores as incorrect
// with a null selected id.
func (s *examSessionService) scoreSession(session *examSession) *model.ExamRecord {
	details := make([]model.AnswerDetail, 0, len(session.questions))
	correct := 0

	for i := range session.questions {
		question := &session.questions[i]

		detail := model.AnswerDetail{QuestionID: question.ID}
		if option := question.CorrectAnswer(); option != nil {
			detail.CorrectAnswerID = strconv.Itoa(option.ID)
		}
		if answerID, ok := session.selections[question.ID]; ok {
			selected := strconv.Itoa(answerID)
			detail.SelectedAnswerID = &selected
			detail.IsCorrect = s.evaluator.IsCorrect(question, answerID)
		}
		if detail.IsCorrect {
			correct++
		}
		details = append(details, detail)
	}

	return &model.ExamRecord{
		UserID:         session.userID,
		ExamID:         session.examID,
		Timestamp:      s.now().Format(time.RFC3339),
		TotalQuestions: len(session.questions),
		CorrectAnswers: correct,
		Details:        details,
	}
}

func (s *examSessionService) sessionDTO(session *examSession) *dto.ExamSessionDTO {
	session.mu.Lock()
	defer session.mu.Unlock()

	questions := make([]dto.QuestionDTO, 0, len(session.questions))
	for i := range session.questions {
		questions = append(questions, questionToDTO(&session.questions[i]))
	}
	selections := make(map[string]int, len(session.selections))
	for q, a := range session.selections {
		selections[q] = a
	}

	remaining := int(session.deadline.Sub(s.now()).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	return &dto.ExamSessionDTO{
		SessionID:        session.id,
		ExamID:           session.examID,
		Questions:        questions,
		Selections:       selections,
		RemainingSeconds: remaining,
		Submitted:        session.submitted,
	}
}

// sweepStale drops submitted sessions and sessions long past their
// deadline. Must be called with the registry lock held.
func (s *examSessionService) sweepStale(now time.Time) {
	for id, session := range s.sessions {
		session.mu.Lock()
		stale := session.submitted || now.After(session.deadline.Add(staleSessionGrace))
		session.mu.Unlock()
		if stale {
			delete(s.sessions, id)
		}
	}
}

// drawQuestions samples count questions uniformly without replacement,
// returning the whole bank when it is smaller than the draw.
func drawQuestions(bank []model.Question, count int) []model.Question {
	shuffled := make([]model.Question, len(bank))
	copy(shuffled, bank)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}

func examSummaryDTO(record *model.ExamRecord) dto.ExamSummaryDTO {
	return dto.ExamSummaryDTO{
		RecordID:       record.ID,
		ExamID:         record.ExamID,
		Timestamp:      record.Timestamp,
		TotalQuestions: record.TotalQuestions,
		CorrectAnswers: record.CorrectAnswers,
		Score:          record.Score(),
	}
}

func examResultDTO(record *model.ExamRecord) *dto.ExamResultDTO {
	result := &dto.ExamResultDTO{
		RecordID:       record.ID,
		ExamID:         record.ExamID,
		Timestamp:      record.Timestamp,
		TotalQuestions: record.TotalQuestions,
		CorrectAnswers: record.CorrectAnswers,
	}
	if err := copier.Copy(&result.Details, record.Details); err != nil {
		log.Warn().Err(err).Msg("Failed to copy exam details to DTO")
	}
	return result
}
