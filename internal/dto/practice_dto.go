package dto

// SelectOptionDTO is the request body for picking an answer in practice
// mode. UserID 0 means guest; guest state lives in memory only.
type SelectOptionDTO struct {
	UserID     int    `json:"user_id"`
	QuestionID string `json:"question_id" binding:"required"`
	AnswerID   int    `json:"answer_id" binding:"required"`
}

// RevealAnswerDTO requests correctness disclosure for a question.
type RevealAnswerDTO struct {
	UserID     int    `json:"user_id"`
	QuestionID string `json:"question_id" binding:"required"`
}

// ProgressItemDTO is the UI-facing state of one question for one user.
// IsCorrect is only populated once the question is revealed.
type ProgressItemDTO struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer *int   `json:"selected_answer,omitempty"`
	Answered       bool   `json:"answered"`
	IsCorrect      *bool  `json:"is_correct,omitempty"`
}

// ResetProgressDTO reports the outcome of a bulk progress reset.
type ResetProgressDTO struct {
	Deleted int `json:"deleted"`
}

// CategoryStatDTO is the derived per-category aggregate; never persisted.
// Accuracy and Completion are percentages in [0,100].
type CategoryStatDTO struct {
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Total      int     `json:"total"`
	Answered   int     `json:"answered"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"`
	Completion float64 `json:"completion"`
}

// QuestionDTO mirrors a bank entry for practice and exam views.
type QuestionDTO struct {
	ID         string            `json:"id"`
	Question   string            `json:"question"`
	Answer     []AnswerOptionDTO `json:"answer"`
	Categories []string          `json:"categories"`
	Compulsory bool              `json:"compulsory"`
	ImgURL     *string           `json:"img_url,omitempty"`
}

// AnswerOptionDTO deliberately omits the correct flag: practice mode must
// not leak the key before reveal. Admin responses use the model directly.
type AnswerOptionDTO struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}
