package repository

import (
	"context"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

type QuestionRepository interface {
	FindAll(ctx context.Context) ([]model.Question, error)
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindByCategory(ctx context.Context, category string) ([]model.Question, error)
	Create(ctx context.Context, question *model.Question) error
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id string) error
}

type questionRepository struct {
	client *Client
}

func NewQuestionRepository(client *Client) QuestionRepository {
	return &questionRepository{client: client}
}

func (r *questionRepository) FindAll(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := r.client.get(ctx, "/questions", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	if err := r.client.get(ctx, "/questions/"+id, nil, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// FindByCategory filters the full bank on the client side; the store's
// filter grammar cannot match inside the categories array.
func (r *questionRepository) FindByCategory(ctx context.Context, category string) ([]model.Question, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var questions []model.Question
	for _, q := range all {
		if q.HasCategory(category) {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.client.post(ctx, "/questions", question, question)
}

func (r *questionRepository) Update(ctx context.Context, question *model.Question) error {
	return r.client.put(ctx, "/questions/"+question.ID, question, question)
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "/questions/"+id)
}
