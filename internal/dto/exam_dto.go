package dto

// StartSessionDTO opens a new trial exam session.
type StartSessionDTO struct {
	UserID int `json:"user_id"`
	ExamID int `json:"exam_id"`
}

// ExamSessionDTO is the live state of an in-progress session. The
// remaining time is informational; the server never force-submits when it
// reaches zero.
type ExamSessionDTO struct {
	SessionID        string         `json:"session_id"`
	ExamID           int            `json:"exam_id"`
	Questions        []QuestionDTO  `json:"questions"`
	Selections       map[string]int `json:"selections"`
	RemainingSeconds int            `json:"remaining_seconds"`
	Submitted        bool           `json:"submitted"`
}

// SessionAnswerDTO records a choice for one question inside a session.
type SessionAnswerDTO struct {
	QuestionID string `json:"question_id" binding:"required"`
	AnswerID   int    `json:"answer_id" binding:"required"`
}

// ConfirmDTO carries the explicit confirmation submit and abandon require.
// A request without Confirm true has no effect on the session.
type ConfirmDTO struct {
	Confirm bool `json:"confirm"`
}

// ExamResultDTO is returned once a session is scored and archived.
type ExamResultDTO struct {
	RecordID       string            `json:"record_id"`
	ExamID         int               `json:"exam_id"`
	Timestamp      string            `json:"timestamp"`
	TotalQuestions int               `json:"total_questions"`
	CorrectAnswers int               `json:"correct_answers"`
	Details        []AnswerDetailDTO `json:"details"`
}

type AnswerDetailDTO struct {
	QuestionID       string  `json:"question_id"`
	SelectedAnswerID *string `json:"selected_answer_id"`
	CorrectAnswerID  string  `json:"correct_answer_id"`
	IsCorrect        bool    `json:"is_correct"`
}

// ExamSummaryDTO is one row of the exam history list.
type ExamSummaryDTO struct {
	RecordID       string  `json:"record_id"`
	ExamID         int     `json:"exam_id"`
	Timestamp      string  `json:"timestamp"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Score          float64 `json:"score"`
}

// ExamDetailDTO is the review view of an archived exam: the frozen details
// joined back with the current question bank. Questions that have since
// left the bank are simply absent from Questions.
type ExamDetailDTO struct {
	ExamSummaryDTO
	Details   []AnswerDetailDTO `json:"details"`
	Questions []QuestionDTO     `json:"questions"`
}
