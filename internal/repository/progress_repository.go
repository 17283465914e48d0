package repository

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

// ProgressRepository reads and writes per-user-per-question progress
// records. Upsert encapsulates the find-or-create pattern so callers never
// orchestrate the query-then-write steps themselves; that is also what
// keeps (userID, questionID) unique, since the store enforces nothing.
type ProgressRepository interface {
	FindByUser(ctx context.Context, userID int) ([]model.ProgressRecord, error)
	FindByUserAndQuestion(ctx context.Context, userID int, questionID string) (*model.ProgressRecord, error)
	Upsert(ctx context.Context, userID int, questionID string, fields model.ProgressFields) (*model.ProgressRecord, error)
	DeleteAllForUser(ctx context.Context, userID int) (int, error)
}

type progressRepository struct {
	client *Client
}

func NewProgressRepository(client *Client) ProgressRepository {
	return &progressRepository{client: client}
}

func (r *progressRepository) FindByUser(ctx context.Context, userID int) ([]model.ProgressRecord, error) {
	query := url.Values{"userId": {strconv.Itoa(userID)}}
	var records []model.ProgressRecord
	if err := r.client.get(ctx, "/progress", query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByUserAndQuestion returns the pair's record, or nil when the user has
// not touched the question yet.
func (r *progressRepository) FindByUserAndQuestion(ctx context.Context, userID int, questionID string) (*model.ProgressRecord, error) {
	query := url.Values{
		"userId":     {strconv.Itoa(userID)},
		"questionId": {questionID},
	}
	var records []model.ProgressRecord
	if err := r.client.get(ctx, "/progress", query, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *progressRepository) Upsert(ctx context.Context, userID int, questionID string, fields model.ProgressFields) (*model.ProgressRecord, error) {
	existing, err := r.FindByUserAndQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Format(time.RFC3339)

	if existing == nil {
		record := model.ProgressRecord{
			UserID:         userID,
			QuestionID:     questionID,
			SelectedAnswer: fields.SelectedAnswer,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if fields.Answered != nil {
			record.Answered = *fields.Answered
		}
		if err := r.client.post(ctx, "/progress", &record, &record); err != nil {
			return nil, err
		}
		return &record, nil
	}

	patch := map[string]any{"updatedAt": now}
	if fields.SelectedAnswer != nil {
		patch["selectedAnswer"] = *fields.SelectedAnswer
	}
	if fields.Answered != nil {
		patch["answered"] = *fields.Answered
	}

	var updated model.ProgressRecord
	if err := r.client.patch(ctx, "/progress/"+existing.ID, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAllForUser removes every record of the user, one delete per record
// the way the store's collection API requires. Returns how many were
// deleted before the first failure.
func (r *progressRepository) DeleteAllForUser(ctx context.Context, userID int) (int, error) {
	records, err := r.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for i, record := range records {
		if err := r.client.delete(ctx, "/progress/"+record.ID); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
