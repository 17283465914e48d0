package model

// ProgressRecord is one user's interaction state with one question, stored
// in the "progress" collection. At most one record exists per
// (UserID, QuestionID) pair; the store itself does not enforce this, the
// repository's upsert does.
//
// Lifecycle: created on first selection with Answered=false, the selection
// overwritten on re-selection, Answered flipped to true on reveal. Records
// are only ever deleted by the bulk progress reset.
type ProgressRecord struct {
	ID             string `json:"id" gorm:"primaryKey"`
	UserID         int    `json:"userId" gorm:"column:user_id;index"`
	QuestionID     string `json:"questionId" gorm:"column:question_id;index"`
	SelectedAnswer *int   `json:"selectedAnswer" gorm:"column:selected_answer"`
	Answered       bool   `json:"answered"`
	CreatedAt      string `json:"createdAt,omitempty" gorm:"column:created_at"`
	UpdatedAt      string `json:"updatedAt,omitempty" gorm:"column:updated_at"`
}

func (ProgressRecord) TableName() string { return "progress" }

// ProgressFields is a partial update for a progress record. Nil members are
// left untouched by the patch.
type ProgressFields struct {
	SelectedAnswer *int  `json:"selectedAnswer,omitempty"`
	Answered       *bool `json:"answered,omitempty"`
}
