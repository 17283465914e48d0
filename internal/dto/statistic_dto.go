package dto

// StatisticsDTO bundles everything the statistics view renders. All of it
// is recomputed from the raw progress and exam histories on each request.
type StatisticsDTO struct {
	TotalQuestions    int               `json:"total_questions"`
	AnsweredQuestions int               `json:"answered_questions"`
	CorrectAnswers    int               `json:"correct_answers"`
	IncorrectAnswers  int               `json:"incorrect_answers"`
	Accuracy          float64           `json:"accuracy"`
	Completion        float64           `json:"completion"`
	CategoryStats     []CategoryStatDTO `json:"category_stats"`
	ExamStats         ExamStatsDTO      `json:"exam_stats"`
	Improvement       ImprovementDTO    `json:"improvement"`
	Streak            StreakDTO         `json:"streak"`
}

type ExamStatsDTO struct {
	TotalExams   int     `json:"total_exams"`
	AverageScore float64 `json:"average_score"`
	BestScore    float64 `json:"best_score"`
	PassRate     float64 `json:"pass_rate"`
	RecentTrend  string  `json:"recent_trend"` // "up", "down" or "stable"
}

type ImprovementDTO struct {
	QuestionsImproved int    `json:"questions_improved"`
	WeeklyProgress    int    `json:"weekly_progress"`
	LearningVelocity  int    `json:"learning_velocity"`
	StrongestCategory string `json:"strongest_category"`
	WeakestCategory   string `json:"weakest_category"`
}

type StreakDTO struct {
	CurrentStreak      int `json:"current_streak"`
	LongestStreak      int `json:"longest_streak"`
	TotalStudyDays     int `json:"total_study_days"`
	AverageSessionTime int `json:"average_session_time"` // minutes, rough estimate
}

// QuestionAttemptStatDTO tallies one question's outcomes across all
// archived exams, for the frequently-wrong review.
type QuestionAttemptStatDTO struct {
	QuestionID      string  `json:"question_id"`
	WrongAttempts   int     `json:"wrong_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	WrongRatio      float64 `json:"wrong_ratio"`
}
