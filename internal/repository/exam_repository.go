package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

// ExamRepository is append-and-read only: exam records are written once at
// submission and never patched or deleted.
type ExamRepository interface {
	FindByUser(ctx context.Context, userID int) ([]model.ExamRecord, error)
	FindByID(ctx context.Context, id string) (*model.ExamRecord, error)
	Create(ctx context.Context, record *model.ExamRecord) error
}

type examRepository struct {
	client *Client
}

func NewExamRepository(client *Client) ExamRepository {
	return &examRepository{client: client}
}

func (r *examRepository) FindByUser(ctx context.Context, userID int) ([]model.ExamRecord, error) {
	query := url.Values{"userId": {strconv.Itoa(userID)}}
	var records []model.ExamRecord
	if err := r.client.get(ctx, "/exam", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *examRepository) FindByID(ctx context.Context, id string) (*model.ExamRecord, error) {
	var record model.ExamRecord
	if err := r.client.get(ctx, "/exam/"+id, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *examRepository) Create(ctx context.Context, record *model.ExamRecord) error {
	return r.client.post(ctx, "/exam", record, record)
}
