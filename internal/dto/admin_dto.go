package dto

// AnswerOptionCreateDTO is one option of a question being curated. The
// admin surface is where the one-correct-option invariant gets checked.
type AnswerOptionCreateDTO struct {
	ID      int    `json:"id"`
	Content string `json:"content" binding:"required"`
	Correct bool   `json:"correct"`
}

// QuestionCreateDTO is the admin request for creating or replacing a
// question-bank entry.
type QuestionCreateDTO struct {
	Question   string                  `json:"question" binding:"required"`
	Answer     []AnswerOptionCreateDTO `json:"answer" binding:"required,min=2,dive"`
	Categories []string                `json:"categories" binding:"required,min=1"`
	Compulsory bool                    `json:"compulsory"`
	ImgURL     *string                 `json:"img_url"`
}
