package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/nutrition"
	"github.com/hitoshi/fitlife/internal/view"
)

// --- モック定義 ---

type mockNutritionService struct {
	listFn          func(ctx context.Context, userID int64) ([]model.Meal, error)
	addFn           func(ctx context.Context, userID int64, input nutrition.AddInput) (*model.Meal, error)
	deleteFn        func(ctx context.Context, userID, mealID int64) error
	weeklySummaryFn func(ctx context.Context, userID int64) ([]model.DailyNutritionTotals, error)
	dailyTotalsFn   func(ctx context.Context, userID int64, days int) ([]model.DailyNutritionTotals, error)
}

func (m *mockNutritionService) List(ctx context.Context, userID int64) ([]model.Meal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNutritionService) Add(ctx context.Context, userID int64, input nutrition.AddInput) (*model.Meal, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *mockNutritionService) Delete(ctx context.Context, userID, mealID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, mealID)
	}
	return nil
}

func (m *mockNutritionService) WeeklySummary(ctx context.Context, userID int64) ([]model.DailyNutritionTotals, error) {
	if m.weeklySummaryFn != nil {
		return m.weeklySummaryFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNutritionService) DailyTotals(ctx context.Context, userID int64, days int) ([]model.DailyNutritionTotals, error) {
	if m.dailyTotalsFn != nil {
		return m.dailyTotalsFn(ctx, userID, days)
	}
	return nil, nil
}

var _ NutritionServiceInterface = (*mockNutritionService)(nil)

// --- テスト ---

func TestNutritionHandler_List_RendersMealsWithSummary(t *testing.T) {
	svc := &mockNutritionService{
		listFn: func(ctx context.Context, userID int64) ([]model.Meal, error) {
			return []model.Meal{{ID: 1, Name: "Oatmeal", Calories: 350}}, nil
		},
		weeklySummaryFn: func(ctx context.Context, userID int64) ([]model.DailyNutritionTotals, error) {
			return []model.DailyNutritionTotals{{TotalCalories: 1800, MealCount: 3}}, nil
		},
	}
	renderer := &mockRenderer{}
	h := NewNutritionHandler(svc, renderer, &mockRecordMetrics{})

	req := withUser(httptest.NewRequest(http.MethodGet, "/nutrition", nil), 7)
	w := httptest.NewRecorder()

	h.List(w, req)

	data, ok := renderer.data.(view.NutritionData)
	if !ok {
		t.Fatalf("data = %T, want view.NutritionData", renderer.data)
	}
	if len(data.Meals) != 1 || data.Meals[0].Name != "Oatmeal" {
		t.Errorf("meals = %+v", data.Meals)
	}
	if len(data.Summary) != 1 || data.Summary[0].TotalCalories != 1800 {
		t.Errorf("summary = %+v", data.Summary)
	}
}

func TestNutritionHandler_List_SummaryFailure_StillRendersMeals(t *testing.T) {
	svc := &mockNutritionService{
		listFn: func(ctx context.Context, userID int64) ([]model.Meal, error) {
			return []model.Meal{{ID: 1, Name: "Oatmeal"}}, nil
		},
		weeklySummaryFn: func(ctx context.Context, userID int64) ([]model.DailyNutritionTotals, error) {
			return nil, errors.New("db down")
		},
	}
	renderer := &mockRenderer{}
	h := NewNutritionHandler(svc, renderer, &mockRecordMetrics{})

	req := withUser(httptest.NewRequest(http.MethodGet, "/nutrition", nil), 7)
	w := httptest.NewRecorder()

	h.List(w, req)

	data, ok := renderer.data.(view.NutritionData)
	if !ok {
		t.Fatalf("data = %T, want view.NutritionData", renderer.data)
	}
	if len(data.Meals) != 1 {
		t.Errorf("meals = %+v, should render despite summary failure", data.Meals)
	}
	if data.Error != "" {
		t.Errorf("error = %q, summary failure should not surface", data.Error)
	}
}

func TestNutritionHandler_Add_Success_RedirectsToList(t *testing.T) {
	var got nutrition.AddInput
	svc := &mockNutritionService{
		addFn: func(ctx context.Context, userID int64, input nutrition.AddInput) (*model.Meal, error) {
			got = input
			return &model.Meal{ID: 1}, nil
		},
	}
	metrics := &mockRecordMetrics{}
	h := NewNutritionHandler(svc, &mockRenderer{}, metrics)

	req := withUser(postForm("/nutrition/add", url.Values{
		"meal_name":     {"Oatmeal"},
		"meal_type":     {"breakfast"},
		"calories":      {"350"},
		"protein_grams": {"12.5"},
		"date":          {"2026-08-20"},
	}), 7)
	w := httptest.NewRecorder()

	h.Add(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if location := resp.Header.Get("Location"); location != "/nutrition" {
		t.Errorf("Location = %q, want %q", location, "/nutrition")
	}
	if got.Name != "Oatmeal" || got.Type != "breakfast" || got.Calories != 350 {
		t.Errorf("AddInput = %+v", got)
	}
	if got.ProteinGrams == nil || *got.ProteinGrams != 12.5 {
		t.Errorf("ProteinGrams = %v, want 12.5", got.ProteinGrams)
	}
	// 未入力のマクロはNULL扱い
	if got.CarbsGrams != nil || got.FatGrams != nil {
		t.Errorf("CarbsGrams = %v, FatGrams = %v, want nil", got.CarbsGrams, got.FatGrams)
	}
	if len(metrics.created) != 1 || metrics.created[0] != "meal" {
		t.Errorf("created metrics = %v", metrics.created)
	}
}

func TestNutritionHandler_Add_CaloriesOutOfRange_RendersError(t *testing.T) {
	addCalled := false
	svc := &mockNutritionService{
		addFn: func(ctx context.Context, userID int64, input nutrition.AddInput) (*model.Meal, error) {
			addCalled = true
			return nil, nil
		},
	}
	renderer := &mockRenderer{}
	h := NewNutritionHandler(svc, renderer, &mockRecordMetrics{})

	req := withUser(postForm("/nutrition/add", url.Values{
		"meal_name": {"Feast"},
		"meal_type": {"dinner"},
		"calories":  {"20000"},
		"date":      {"2026-08-20"},
	}), 7)
	w := httptest.NewRecorder()

	h.Add(w, req)

	if addCalled {
		t.Error("service.Add should not be called on validation failure")
	}
	data, ok := renderer.data.(view.AddNutritionData)
	if !ok {
		t.Fatalf("data = %T, want view.AddNutritionData", renderer.data)
	}
	found := false
	for _, msg := range data.Errors {
		if msg == "Calories must be between 0 and 10000" {
			found = true
		}
	}
	if !found {
		t.Errorf("errors %v should contain calories range message", data.Errors)
	}
	if data.Form.Name != "Feast" {
		t.Errorf("form echo = %+v", data.Form)
	}
}

func TestNutritionHandler_Delete_AlwaysRedirects(t *testing.T) {
	svc := &mockNutritionService{
		deleteFn: func(ctx context.Context, userID, mealID int64) error {
			return errors.New("db down")
		},
	}
	h := NewNutritionHandler(svc, &mockRenderer{}, &mockRecordMetrics{})

	req := withUser(withGoalID(httptest.NewRequest(http.MethodPost, "/nutrition/delete/9", nil), "9"), 7)
	w := httptest.NewRecorder()

	h.Delete(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if location := resp.Header.Get("Location"); location != "/nutrition" {
		t.Errorf("Location = %q, want %q", location, "/nutrition")
	}
}
