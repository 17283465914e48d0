package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haiminh-dev/drivemaster/config"
	"github.com/haiminh-dev/drivemaster/internal/dto"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/repository"
)

// trendBand is the sensitivity band for the recent-score trend: the last
// three exams must move the mean by more than this many points before the
// trend leaves "stable".
const trendBand = 5.0

// StatisticsService derives every statistics-view figure from the raw
// progress and exam histories. There is no hidden state; each call
// recomputes from the two lists.
type StatisticsService interface {
	Summary(ctx context.Context, userID int) (*dto.StatisticsDTO, error)
	FrequentlyWrong(ctx context.Context, userID int, threshold float64) ([]dto.QuestionAttemptStatDTO, error)
}

type statisticsService struct {
	questionRepo repository.QuestionRepository
	examRepo     repository.ExamRepository
	progress     ProgressSource
	categorySvc  CategoryService
	evaluator    EvaluationService
	cfg          *config.Config
	now          func() time.Time
}

func NewStatisticsService(questionRepo repository.QuestionRepository, examRepo repository.ExamRepository, progress ProgressSource, categorySvc CategoryService, evaluator EvaluationService, cfg *config.Config) StatisticsService {
	return &statisticsService{
		questionRepo: questionRepo,
		examRepo:     examRepo,
		progress:     progress,
		categorySvc:  categorySvc,
		evaluator:    evaluator,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *statisticsService) Summary(ctx context.Context, userID int) (*dto.StatisticsDTO, error) {
	questions, err := s.questionRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Statistics: failed to fetch questions")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	progress, err := s.progress.For(userID).FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Statistics: failed to fetch progress")
		return nil, fmt.Errorf("error fetching progress: %w", err)
	}
	exams, err := s.examRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("Statistics: failed to fetch exam history")
		return nil, fmt.Errorf("error fetching exam history: %w", err)
	}

	bank := questionsByID(questions)

	answered, correct := 0, 0
	for i := range progress {
		if !progress[i].Answered {
			continue
		}
		question, ok := bank[progress[i].QuestionID]
		if !ok {
			continue
		}
		answered++
		if s.evaluator.IsCorrectSelection(question, progress[i].SelectedAnswer) {
			correct++
		}
	}

	categoryStats := make([]dto.CategoryStatDTO, 0, len(Categories))
	for _, category := range Categories {
		categoryStats = append(categoryStats, s.categorySvc.Aggregate(questions, progress, category))
	}
	strongest, weakest := extremeCategories(categoryStats)
	weekly := countSince(progress, s.now().AddDate(0, 0, -7))

	stats := &dto.StatisticsDTO{
		TotalQuestions:    len(questions),
		AnsweredQuestions: answered,
		CorrectAnswers:    correct,
		IncorrectAnswers:  answered - correct,
		Accuracy:          ratio(correct, answered),
		Completion:        ratio(answered, len(questions)),
		CategoryStats:     categoryStats,
		ExamStats:         s.examStats(exams),
		Improvement: dto.ImprovementDTO{
			QuestionsImproved: correct,
			WeeklyProgress:    weekly,
			LearningVelocity:  int(math.Round(float64(weekly) / 7)),
			StrongestCategory: strongest,
			WeakestCategory:   weakest,
		},
		Streak: s.streakStats(progress),
	}
	return stats, nil
}

// FrequentlyWrong tallies each question's outcomes across every archived
// exam and keeps those whose wrong-attempt ratio reaches the threshold
// (a fraction in [0,1]).
func (s *statisticsService) FrequentlyWrong(ctx context.Context, userID int, threshold float64) ([]dto.QuestionAttemptStatDTO, error) {
	exams, err := s.examRepo.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int("userID", userID).Msg("FrequentlyWrong: failed to fetch exam history")
		return nil, fmt.Errorf("error fetching exam history: %w", err)
	}

	tally := make(map[string]*dto.QuestionAttemptStatDTO)
	var order []string
	for i := range exams {
		for _, detail := range exams[i].Details {
			stat, ok := tally[detail.QuestionID]
			if !ok {
				stat = &dto.QuestionAttemptStatDTO{QuestionID: detail.QuestionID}
				tally[detail.QuestionID] = stat
				order = append(order, detail.QuestionID)
			}
			if detail.IsCorrect {
				stat.CorrectAttempts++
			} else {
				stat.WrongAttempts++
			}
		}
	}

	var out []dto.QuestionAttemptStatDTO
	for _, questionID := range order {
		stat := tally[questionID]
		attempts := stat.WrongAttempts + stat.CorrectAttempts
		if attempts == 0 {
			continue
		}
		stat.WrongRatio = float64(stat.WrongAttempts) / float64(attempts)
		if stat.WrongRatio >= threshold {
			out = append(out, *stat)
		}
	}
	return out, nil
}

// examStats summarizes the archive over normalized 0-100 scores, in
// chronological order for the trend comparison.
func (s *statisticsService) examStats(exams []model.ExamRecord) dto.ExamStatsDTO {
	sorted := make([]model.ExamRecord, len(exams))
	copy(sorted, exams)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	scores := make([]float64, 0, len(sorted))
	passed := 0
	for i := range sorted {
		score := sorted[i].Score()
		scores = append(scores, score)
		if score >= s.cfg.Exam.PassThreshold {
			passed++
		}
	}

	stats := dto.ExamStatsDTO{TotalExams: len(scores), RecentTrend: trend(scores)}
	if len(scores) == 0 {
		return stats
	}

	sum, best := 0.0, scores[0]
	for _, score := range scores {
		sum += score
		if score > best {
			best = score
		}
	}
	stats.AverageScore = sum / float64(len(scores))
	stats.BestScore = best
	stats.PassRate = float64(passed) / float64(len(scores)) * 100
	return stats
}

// trend compares the mean of the last three scores with the mean of the
// three before them. Fewer than two scores, or an empty comparison window,
// reads as stable.
func trend(scores []float64) string {
	if len(scores) < 2 {
		return "stable"
	}
	recent := scores[max(0, len(scores)-3):]
	older := scores[max(0, len(scores)-6):max(0, len(scores)-3)]
	if len(recent) == 0 || len(older) == 0 {
		return "stable"
	}

	switch recentAvg, olderAvg := mean(recent), mean(older); {
	case recentAvg > olderAvg+trendBand:
		return "up"
	case recentAvg < olderAvg-trendBand:
		return "down"
	default:
		return "stable"
	}
}

// streakStats walks calendar days backward from today, counting days with
// any progress activity until the first gap. The longest streak mirrors
// the current one; no historical maximum is kept.
func (s *statisticsService) streakStats(progress []model.ProgressRecord) dto.StreakDTO {
	days := make(map[string]bool)
	for i := range progress {
		if t, ok := activityTime(&progress[i]); ok {
			days[t.Format("2006-01-02")] = true
		}
	}

	streak := 0
	today := s.now()
	for ; ; streak++ {
		day := today.AddDate(0, 0, -streak).Format("2006-01-02")
		if !days[day] {
			break
		}
	}

	return dto.StreakDTO{
		CurrentStreak:      streak,
		LongestStreak:      streak,
		TotalStudyDays:     len(days),
		AverageSessionTime: len(progress) * 2,
	}
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func countSince(progress []model.ProgressRecord, cutoff time.Time) int {
	count := 0
	for i := range progress {
		if t, ok := activityTime(&progress[i]); ok && !t.Before(cutoff) {
			count++
		}
	}
	return count
}

// activityTime prefers the last update over creation, matching how the
// records are written: a reveal or re-selection touches UpdatedAt.
func activityTime(record *model.ProgressRecord) (time.Time, bool) {
	for _, stamp := range []string{record.UpdatedAt, record.CreatedAt} {
		if stamp == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// extremeCategories returns the names of the best and worst categories by
// accuracy, first match winning ties.
func extremeCategories(stats []dto.CategoryStatDTO) (strongest, weakest string) {
	if len(stats) == 0 {
		return "", ""
	}
	best, worst := stats[0], stats[0]
	for _, stat := range stats[1:] {
		if stat.Accuracy > best.Accuracy {
			best = stat
		}
		if stat.Accuracy < worst.Accuracy {
			worst = stat
		}
	}
	return best.Name, worst.Name
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
