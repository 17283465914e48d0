package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/haiminh-dev/drivemaster/config"
	"github.com/haiminh-dev/drivemaster/internal/model"
)

// storeStub imitates the record store's /progress collection: equality
// filters on the list route, PATCH merging only the provided keys.
type storeStub struct {
	t       *testing.T
	records map[string]*model.ProgressRecord
	nextID  int
	posts   int
	patches int
	deletes int
}

func newStoreStub(t *testing.T) *storeStub {
	return &storeStub{t: t, records: make(map[string]*model.ProgressRecord), nextID: 1}
}

func (s *storeStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/progress":
		s.list(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/progress":
		s.create(w, r)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/progress/"):
		s.patch(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/progress/"):
		s.delete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *storeStub) list(w http.ResponseWriter, r *http.Request) {
	out := []model.ProgressRecord{}
	for _, record := range s.records {
		if userID := r.URL.Query().Get("userId"); userID != "" && userID != strconv.Itoa(record.UserID) {
			continue
		}
		if questionID := r.URL.Query().Get("questionId"); questionID != "" && questionID != record.QuestionID {
			continue
		}
		out = append(out, *record)
	}
	json.NewEncoder(w).Encode(out)
}

func (s *storeStub) create(w http.ResponseWriter, r *http.Request) {
	s.posts++
	var record model.ProgressRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		s.t.Fatalf("store stub: bad create body: %v", err)
	}
	record.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.records[record.ID] = &record
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

func (s *storeStub) patch(w http.ResponseWriter, r *http.Request) {
	s.patches++
	id := strings.TrimPrefix(r.URL.Path, "/progress/")
	record, ok := s.records[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(record); err != nil {
		s.t.Fatalf("store stub: bad patch body: %v", err)
	}
	record.ID = id
	json.NewEncoder(w).Encode(record)
}

func (s *storeStub) delete(w http.ResponseWriter, r *http.Request) {
	s.deletes++
	id := strings.TrimPrefix(r.URL.Path, "/progress/")
	delete(s.records, id)
	w.WriteHeader(http.StatusNoContent)
}

func newTestRepository(t *testing.T) (ProgressRepository, *storeStub) {
	stub := newStoreStub(t)
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	client := NewClient(&config.Config{RecordStore: config.RecordStore{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	}})
	return NewProgressRepository(client), stub
}

func TestUpsertCreatesThenPatches(t *testing.T) {
	repo, stub := newTestRepository(t)
	ctx := context.Background()
	answer := 3

	record, err := repo.Upsert(ctx, 7, "q1", model.ProgressFields{SelectedAnswer: &answer})
	if err != nil {
		t.Fatalf("Upsert (create): %v", err)
	}
	if record.ID == "" {
		t.Error("expected the store-assigned id on the returned record")
	}
	if record.SelectedAnswer == nil || *record.SelectedAnswer != 3 {
		t.Errorf("selected answer = %v, want 3", record.SelectedAnswer)
	}
	if record.Answered {
		t.Error("create without the answered field must leave it false")
	}
	if record.CreatedAt == "" || record.UpdatedAt == "" {
		t.Error("expected both timestamps on create")
	}
	if stub.posts != 1 || stub.patches != 0 {
		t.Errorf("expected 1 POST and 0 PATCH, got %d/%d", stub.posts, stub.patches)
	}

	// Second write for the same pair must patch, not duplicate.
	answered := true
	updated, err := repo.Upsert(ctx, 7, "q1", model.ProgressFields{Answered: &answered})
	if err != nil {
		t.Fatalf("Upsert (patch): %v", err)
	}
	if updated.ID != record.ID {
		t.Errorf("patch created a new record: %s vs %s", updated.ID, record.ID)
	}
	if !updated.Answered {
		t.Error("expected answered true after patch")
	}
	if updated.SelectedAnswer == nil || *updated.SelectedAnswer != 3 {
		t.Errorf("patch must not clear the selection, got %v", updated.SelectedAnswer)
	}
	if stub.posts != 1 || stub.patches != 1 {
		t.Errorf("expected 1 POST and 1 PATCH, got %d/%d", stub.posts, stub.patches)
	}
	if len(stub.records) != 1 {
		t.Errorf("expected a single record in the store, got %d", len(stub.records))
	}
}

func TestFindByUserAndQuestionAbsent(t *testing.T) {
	repo, _ := newTestRepository(t)

	record, err := repo.FindByUserAndQuestion(context.Background(), 7, "q1")
	if err != nil {
		t.Fatalf("FindByUserAndQuestion: %v", err)
	}
	if record != nil {
		t.Errorf("expected nil for an untouched question, got %+v", record)
	}
}

func TestFindByUserFilters(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	answer := 1

	if _, err := repo.Upsert(ctx, 7, "q1", model.ProgressFields{SelectedAnswer: &answer}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, 9, "q1", model.ProgressFields{SelectedAnswer: &answer}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	records, err := repo.FindByUser(ctx, 7)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(records) != 1 || records[0].UserID != 7 {
		t.Errorf("expected only user 7's record, got %+v", records)
	}
}

func TestDeleteAllForUser(t *testing.T) {
	repo, stub := newTestRepository(t)
	ctx := context.Background()
	answer := 1

	for _, questionID := range []string{"q1", "q2", "q3"} {
		if _, err := repo.Upsert(ctx, 7, questionID, model.ProgressFields{SelectedAnswer: &answer}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	if _, err := repo.Upsert(ctx, 9, "q1", model.ProgressFields{SelectedAnswer: &answer}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	deleted, err := repo.DeleteAllForUser(ctx, 7)
	if err != nil {
		t.Fatalf("DeleteAllForUser: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if stub.deletes != 3 {
		t.Errorf("expected 3 DELETE calls, got %d", stub.deletes)
	}
	if len(stub.records) != 1 {
		t.Errorf("expected the other user's record to survive, got %d records", len(stub.records))
	}
}
