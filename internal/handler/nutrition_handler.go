package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/nutrition"
	"github.com/hitoshi/fitlife/internal/view"
)

// NutritionServiceInterface は食事ハンドラーが必要とするサービスインターフェース。
type NutritionServiceInterface interface {
	List(ctx context.Context, userID int64) ([]model.Meal, error)
	Add(ctx context.Context, userID int64, input nutrition.AddInput) (*model.Meal, error)
	Delete(ctx context.Context, userID, mealID int64) error
	WeeklySummary(ctx context.Context, userID int64) ([]model.DailyNutritionTotals, error)
	DailyTotals(ctx context.Context, userID int64, days int) ([]model.DailyNutritionTotals, error)
}

// NutritionHandler は食事記録ページのHTTPハンドラー。
type NutritionHandler struct {
	service  NutritionServiceInterface
	renderer Renderer
	metrics  RecordMetrics
}

// NewNutritionHandler はNutritionHandlerを生成する。
func NewNutritionHandler(service NutritionServiceInterface, renderer Renderer, metrics RecordMetrics) *NutritionHandler {
	return &NutritionHandler{service: service, renderer: renderer, metrics: metrics}
}

// mealForm は食事記録追加フォームの入力。
type mealForm struct {
	Name     string `validate:"required,max=100"`
	Type     string `validate:"required,oneof=breakfast lunch dinner snack"`
	Calories int    `validate:"min=0,max=10000"`
}

// mealMessages は食事記録フォームの検証メッセージ。
var mealMessages = map[string]string{
	"Name.required": "Meal name is required",
	"Name.max":      "Meal name must be less than 100 characters",
	"Type.required": "Invalid meal type",
	"Type.oneof":    "Invalid meal type",
	"Calories.min":  "Calories must be between 0 and 10000",
	"Calories.max":  "Calories must be between 0 and 10000",
}

// List は食事記録一覧ページを表示する。直近7日間の日次サマリー付き。
// GET /nutrition
func (h *NutritionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	data := view.NutritionData{
		Base: view.Base{Title: "My Nutrition - FitLife Tracker", User: user},
	}

	meals, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list meals", slog.String("error", err.Error()))
		data.Error = "Failed to load nutrition data"
		h.renderer.Render(w, http.StatusOK, "nutrition", data)
		return
	}
	data.Meals = meals

	// サマリーの失敗は一覧表示を妨げない
	summary, err := h.service.WeeklySummary(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to load nutrition summary", slog.String("error", err.Error()))
	} else {
		data.Summary = summary
	}

	h.renderer.Render(w, http.StatusOK, "nutrition", data)
}

// ShowAdd は食事記録追加フォームを表示する。
// GET /nutrition/add
func (h *NutritionHandler) ShowAdd(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "add-nutrition", view.AddNutritionData{
		Base: view.Base{Title: "Add Meal - FitLife Tracker", User: user},
	})
}

// Add は食事記録追加フォームを処理する。
// POST /nutrition/add
func (h *NutritionHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderAddErrors(w, user, []string{"Failed to add meal. Please try again."}, view.MealForm{})
		return
	}

	echo := view.MealForm{
		Name:     r.PostFormValue("meal_name"),
		Type:     r.PostFormValue("meal_type"),
		Calories: r.PostFormValue("calories"),
		Protein:  r.PostFormValue("protein_grams"),
		Carbs:    r.PostFormValue("carbs_grams"),
		Fat:      r.PostFormValue("fat_grams"),
		Date:     r.PostFormValue("date"),
	}

	var msgs []string

	calories, err := strconv.Atoi(echo.Calories)
	if err != nil {
		msgs = append(msgs, "Calories must be between 0 and 10000")
	}

	protein, err := parseOptionalFloat(echo.Protein)
	if err != nil || (protein != nil && *protein < 0) {
		msgs = append(msgs, "Protein must be a positive number")
		protein = nil
	}

	carbs, err := parseOptionalFloat(echo.Carbs)
	if err != nil || (carbs != nil && *carbs < 0) {
		msgs = append(msgs, "Carbs must be a positive number")
		carbs = nil
	}

	fat, err := parseOptionalFloat(echo.Fat)
	if err != nil || (fat != nil && *fat < 0) {
		msgs = append(msgs, "Fat must be a positive number")
		fat = nil
	}

	date, err := parseDate(echo.Date)
	if err != nil {
		msgs = append(msgs, "Please enter a valid date")
	}

	form := mealForm{
		Name:     echo.Name,
		Type:     echo.Type,
		Calories: calories,
	}
	if err := validate.Struct(form); err != nil {
		msgs = append(msgs, validationMessages(err, mealMessages)...)
	}

	if len(msgs) > 0 {
		h.renderAddErrors(w, user, msgs, echo)
		return
	}

	_, err = h.service.Add(r.Context(), user.ID, nutrition.AddInput{
		Name:         form.Name,
		Type:         form.Type,
		Calories:     form.Calories,
		ProteinGrams: protein,
		CarbsGrams:   carbs,
		FatGrams:     fat,
		Date:         date,
	})
	if err != nil {
		slog.Error("failed to add meal", slog.String("error", err.Error()))
		h.renderAddErrors(w, user, []string{"Failed to add meal. Please try again."}, echo)
		return
	}

	h.metrics.RecordCreated("meal")
	http.Redirect(w, r, "/nutrition", http.StatusSeeOther)
}

// Delete は食事記録を削除して一覧へ戻す。
// 本人の記録でない場合は何も削除されないが、レスポンスは同じリダイレクト。
// POST /nutrition/delete/{id}
func (h *NutritionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
			slog.Error("failed to delete meal", slog.String("error", err.Error()))
		}
	}

	http.Redirect(w, r, "/nutrition", http.StatusSeeOther)
}

func (h *NutritionHandler) renderAddErrors(w http.ResponseWriter, user *model.SessionUser, msgs []string, form view.MealForm) {
	h.renderer.Render(w, http.StatusOK, "add-nutrition", view.AddNutritionData{
		Base:   view.Base{Title: "Add Meal - FitLife Tracker", User: user},
		Errors: msgs,
		Form:   form,
	})
}
