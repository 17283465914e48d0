package model

// AnswerDetail is the per-question outcome frozen into an exam record.
// SelectedAnswerID is nil when the question was left blank; answer ids are
// carried as strings on the wire, matching the stored history format.
type AnswerDetail struct {
	QuestionID       string  `json:"questionId"`
	SelectedAnswerID *string `json:"selectedAnswerId"`
	CorrectAnswerID  string  `json:"correctAnswerId"`
	IsCorrect        bool    `json:"isCorrect"`
}

// ExamRecord is one finished trial exam in the "exam" collection. Written
// exactly once at submission and never updated afterwards.
type ExamRecord struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	UserID         int            `json:"userId" gorm:"column:user_id;index"`
	ExamID         int            `json:"examId" gorm:"column:exam_id"`
	Timestamp      string         `json:"timestamp"`
	TotalQuestions int            `json:"totalQuestions" gorm:"column:total_questions"`
	CorrectAnswers int            `json:"correctAnswers" gorm:"column:correct_answers"`
	Details        []AnswerDetail `json:"details" gorm:"serializer:json"`
}

func (ExamRecord) TableName() string { return "exam" }

// Score is the record's result normalized to a 0-100 scale.
func (e *ExamRecord) Score() float64 {
	if e.TotalQuestions == 0 {
		return 0
	}
	return float64(e.CorrectAnswers) / float64(e.TotalQuestions) * 100
}
