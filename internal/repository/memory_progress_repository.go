package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/haiminh-dev/drivemaster/internal/model"
)

// MemoryProgressRepository keeps progress records in process memory. It
// backs guest practice: the state machine runs unchanged, nothing survives
// a restart. Safe for concurrent use.
type MemoryProgressRepository struct {
	mu      sync.Mutex
	nextID  int
	records map[string]*model.ProgressRecord // keyed by record ID
}

var _ ProgressRepository = (*MemoryProgressRepository)(nil)

func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{nextID: 1, records: make(map[string]*model.ProgressRecord)}
}

func (r *MemoryProgressRepository) FindByUser(_ context.Context, userID int) ([]model.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.ProgressRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *MemoryProgressRepository) FindByUserAndQuestion(_ context.Context, userID int, questionID string) (*model.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record := r.find(userID, questionID); record != nil {
		copy := *record
		return &copy, nil
	}
	return nil, nil
}

func (r *MemoryProgressRepository) Upsert(_ context.Context, userID int, questionID string, fields model.ProgressFields) (*model.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Format(time.RFC3339)

	record := r.find(userID, questionID)
	if record == nil {
		record = &model.ProgressRecord{
			ID:         strconv.Itoa(r.nextID),
			UserID:     userID,
			QuestionID: questionID,
			CreatedAt:  now,
		}
		r.nextID++
		r.records[record.ID] = record
	}

	if fields.SelectedAnswer != nil {
		record.SelectedAnswer = fields.SelectedAnswer
	}
	if fields.Answered != nil {
		record.Answered = *fields.Answered
	}
	record.UpdatedAt = now

	copy := *record
	return &copy, nil
}

func (r *MemoryProgressRepository) DeleteAllForUser(_ context.Context, userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, record := range r.records {
		if record.UserID == userID {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// find must be called with the lock held.
func (r *MemoryProgressRepository) find(userID int, questionID string) *model.ProgressRecord {
	for _, record := range r.records {
		if record.UserID == userID && record.QuestionID == questionID {
			return record
		}
	}
	return nil
}
