package exercise

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/repository"
	"github.com/hitoshi/fitlife/internal/security"
)

// --- モック定義 ---

type mockExerciseRepo struct {
	listByUserIDFn      func(ctx context.Context, userID int64) ([]model.Exercise, error)
	createFn            func(ctx context.Context, exercise *model.Exercise) error
	searchFn            func(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error)
	deleteByIDAndUserFn func(ctx context.Context, id, userID int64) error
	statsByTypeFn       func(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error)
	searchSummariesFn   func(ctx context.Context, userID int64, keyword string, limit int) ([]model.ActivitySummary, error)
}

func (m *mockExerciseRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Exercise, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	if m.createFn != nil {
		return m.createFn(ctx, exercise)
	}
	exercise.ID = 1
	return nil
}

func (m *mockExerciseRepo) Search(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockExerciseRepo) DeleteByIDAndUserID(ctx context.Context, id, userID int64) error {
	if m.deleteByIDAndUserFn != nil {
		return m.deleteByIDAndUserFn(ctx, id, userID)
	}
	return nil
}

func (m *mockExerciseRepo) StatsByType(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error) {
	if m.statsByTypeFn != nil {
		return m.statsByTypeFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockExerciseRepo) SearchSummaries(ctx context.Context, userID int64, keyword string, limit int) ([]model.ActivitySummary, error) {
	if m.searchSummariesFn != nil {
		return m.searchSummariesFn(ctx, userID, keyword, limit)
	}
	return nil, nil
}

var _ repository.ExerciseRepository = (*mockExerciseRepo)(nil)

// --- テスト ---

func TestService_Add_SanitizesFreeTextFields(t *testing.T) {
	var created *model.Exercise
	repo := &mockExerciseRepo{
		createFn: func(ctx context.Context, exercise *model.Exercise) error {
			exercise.ID = 1
			created = exercise
			return nil
		},
	}
	svc := NewService(repo, security.NewInputSanitizer())

	calories := 250
	_, err := svc.Add(context.Background(), 7, AddInput{
		Name:           `Run <script>alert("x")</script>`,
		Type:           "cardio",
		DurationMins:   30,
		CaloriesBurned: &calories,
		Date:           time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Notes:          "<b>easy</b> pace",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if created == nil {
		t.Fatal("exercise should be persisted")
	}
	if strings.Contains(created.Name, "<") || strings.Contains(created.Name, "alert") {
		t.Errorf("Name = %q, markup should be stripped", created.Name)
	}
	if !strings.Contains(created.Name, "Run") {
		t.Errorf("Name = %q, text should survive", created.Name)
	}
	if created.Notes != "easy pace" {
		t.Errorf("Notes = %q, markup should be stripped", created.Notes)
	}
	if created.UserID != 7 {
		t.Errorf("UserID = %d, want 7", created.UserID)
	}
	if created.CaloriesBurned == nil || *created.CaloriesBurned != 250 {
		t.Errorf("CaloriesBurned = %v, want 250", created.CaloriesBurned)
	}
}

func TestService_Search_SanitizesKeyword(t *testing.T) {
	var gotFilter model.ExerciseFilter
	repo := &mockExerciseRepo{
		searchFn: func(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	svc := NewService(repo, security.NewInputSanitizer())

	_, err := svc.Search(context.Background(), 7, model.ExerciseFilter{
		Keyword: "<img src=x onerror=alert(1)>run",
		Type:    "cardio",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotFilter.Keyword != "run" {
		t.Errorf("Keyword = %q, markup should be stripped", gotFilter.Keyword)
	}
	if gotFilter.Type != "cardio" {
		t.Errorf("Type = %q, want cardio", gotFilter.Type)
	}
}

func TestService_Delete_ScopesToOwner(t *testing.T) {
	var gotID, gotUserID int64
	repo := &mockExerciseRepo{
		deleteByIDAndUserFn: func(ctx context.Context, id, userID int64) error {
			gotID = id
			gotUserID = userID
			return nil
		},
	}
	svc := NewService(repo, security.NewInputSanitizer())

	if err := svc.Delete(context.Background(), 7, 42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotID != 42 || gotUserID != 7 {
		t.Errorf("DeleteByIDAndUserID(%d, %d), want (42, 7)", gotID, gotUserID)
	}
}

func TestService_List_WrapsRepositoryError(t *testing.T) {
	repo := &mockExerciseRepo{
		listByUserIDFn: func(ctx context.Context, userID int64) ([]model.Exercise, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo, security.NewInputSanitizer())

	_, err := svc.List(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestService_StatsByType_DelegatesToRepository(t *testing.T) {
	repo := &mockExerciseRepo{
		statsByTypeFn: func(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error) {
			return []model.ExerciseTypeStats{
				{Type: "cardio", Count: 5, TotalMinutes: 150},
			}, nil
		},
	}
	svc := NewService(repo, security.NewInputSanitizer())

	stats, err := svc.StatsByType(context.Background(), 7)
	if err != nil {
		t.Fatalf("StatsByType: %v", err)
	}
	if len(stats) != 1 || stats[0].Count != 5 {
		t.Errorf("stats = %+v", stats)
	}
}
