package model

// AnswerOption is one choice within a question. Exactly one option per
// question carries Correct=true; the admin surface owns that invariant.
type AnswerOption struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Correct bool   `json:"correct"`
}

// Question is a question-bank entry as stored in the record store's
// "questions" collection. Immutable from the core's perspective.
type Question struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	Question   string         `json:"question" gorm:"type:text;not null"`
	Answer     []AnswerOption `json:"answer" gorm:"serializer:json"`
	Categories []string       `json:"categories" gorm:"serializer:json"`
	Compulsory bool           `json:"compulsory"`
	ImgURL     *string        `json:"img_url"`
}

func (Question) TableName() string { return "questions" }

// HasCategory reports whether the question belongs to the given category.
func (q *Question) HasCategory(category string) bool {
	for _, c := range q.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// CorrectAnswer returns the option marked correct, or nil when the bank
// data is malformed and no option is marked.
func (q *Question) CorrectAnswer() *AnswerOption {
	for i := range q.Answer {
		if q.Answer[i].Correct {
			return &q.Answer[i]
		}
	}
	return nil
}
