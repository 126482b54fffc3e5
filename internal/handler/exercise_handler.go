package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/fitlife/internal/exercise"
	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/view"
)

// ExerciseServiceInterface は運動ハンドラーが必要とするサービスインターフェース。
type ExerciseServiceInterface interface {
	List(ctx context.Context, userID int64) ([]model.Exercise, error)
	Add(ctx context.Context, userID int64, input exercise.AddInput) (*model.Exercise, error)
	Search(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error)
	Delete(ctx context.Context, userID, exerciseID int64) error
	StatsByType(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error)
}

// RecordMetrics はレコード作成を記録するメトリクスのインターフェース。
type RecordMetrics interface {
	RecordCreated(resource string)
}

// ExerciseHandler は運動記録ページのHTTPハンドラー。
type ExerciseHandler struct {
	service  ExerciseServiceInterface
	renderer Renderer
	metrics  RecordMetrics
}

// NewExerciseHandler はExerciseHandlerを生成する。
func NewExerciseHandler(service ExerciseServiceInterface, renderer Renderer, metrics RecordMetrics) *ExerciseHandler {
	return &ExerciseHandler{service: service, renderer: renderer, metrics: metrics}
}

// exerciseForm は運動記録追加フォームの入力。
// 数値・日付フィールドはパース済みの値に対して検証する。
type exerciseForm struct {
	Name         string `validate:"required,max=100"`
	Type         string `validate:"required,oneof=cardio strength flexibility sports"`
	DurationMins int    `validate:"min=1,max=1440"`
	Notes        string `validate:"omitempty,max=500"`
}

// exerciseMessages は運動記録フォームの検証メッセージ。
var exerciseMessages = map[string]string{
	"Name.required":    "Exercise name is required",
	"Name.max":         "Exercise name must be less than 100 characters",
	"Type.required":    "Invalid exercise type",
	"Type.oneof":       "Invalid exercise type",
	"DurationMins.min": "Duration must be between 1 and 1440 minutes",
	"DurationMins.max": "Duration must be between 1 and 1440 minutes",
	"Notes.max":        "Notes must be less than 500 characters",
}

// List は運動記録一覧ページを表示する。
// GET /exercises
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	data := view.ExercisesData{
		Base: view.Base{Title: "My Exercises - FitLife Tracker", User: user},
	}

	exercises, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list exercises", slog.String("error", err.Error()))
		data.Error = "Failed to load exercises"
	} else {
		data.Exercises = exercises
	}

	h.renderer.Render(w, http.StatusOK, "exercises", data)
}

// ShowAdd は運動記録追加フォームを表示する。
// GET /exercises/add
func (h *ExerciseHandler) ShowAdd(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "add-exercise", view.AddExerciseData{
		Base: view.Base{Title: "Add Exercise - FitLife Tracker", User: user},
	})
}

// Add は運動記録追加フォームを処理する。
// POST /exercises/add
func (h *ExerciseHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderAddErrors(w, user, []string{"Failed to add exercise. Please try again."}, view.ExerciseForm{})
		return
	}

	echo := view.ExerciseForm{
		Name:           r.PostFormValue("exercise_name"),
		Type:           r.PostFormValue("exercise_type"),
		DurationMins:   r.PostFormValue("duration_minutes"),
		CaloriesBurned: r.PostFormValue("calories_burned"),
		Date:           r.PostFormValue("date"),
		Notes:          r.PostFormValue("notes"),
	}

	var msgs []string

	duration, err := strconv.Atoi(echo.DurationMins)
	if err != nil {
		msgs = append(msgs, "Duration must be between 1 and 1440 minutes")
	}

	calories, err := parseOptionalInt(echo.CaloriesBurned)
	if err != nil || (calories != nil && *calories < 0) {
		msgs = append(msgs, "Calories must be a positive number")
		calories = nil
	}

	date, err := parseDate(echo.Date)
	if err != nil {
		msgs = append(msgs, "Please enter a valid date")
	}

	form := exerciseForm{
		Name:         echo.Name,
		Type:         echo.Type,
		DurationMins: duration,
		Notes:        echo.Notes,
	}
	if err := validate.Struct(form); err != nil {
		msgs = append(msgs, validationMessages(err, exerciseMessages)...)
	}

	if len(msgs) > 0 {
		h.renderAddErrors(w, user, msgs, echo)
		return
	}

	_, err = h.service.Add(r.Context(), user.ID, exercise.AddInput{
		Name:           form.Name,
		Type:           form.Type,
		DurationMins:   form.DurationMins,
		CaloriesBurned: calories,
		Date:           date,
		Notes:          form.Notes,
	})
	if err != nil {
		slog.Error("failed to add exercise", slog.String("error", err.Error()))
		h.renderAddErrors(w, user, []string{"Failed to add exercise. Please try again."}, echo)
		return
	}

	h.metrics.RecordCreated("exercise")
	http.Redirect(w, r, "/exercises", http.StatusSeeOther)
}

// ShowSearch は運動検索フォームを表示する。
// GET /exercises/search
func (h *ExerciseHandler) ShowSearch(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "search-exercises", view.SearchExercisesData{
		Base: view.Base{Title: "Search Exercises - FitLife Tracker", User: user},
	})
}

// SearchResult は運動検索を実行して結果を表示する。
// 全フィルタ省略時は本人の全運動記録を返す。
// GET /exercises/search-result?keyword=&exercise_type=&date_from=&date_to=
func (h *ExerciseHandler) SearchResult(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	filters := view.ExerciseSearchForm{
		Keyword:  r.URL.Query().Get("keyword"),
		Type:     r.URL.Query().Get("exercise_type"),
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
	}

	data := view.SearchExercisesData{
		Base:     view.Base{Title: "Search Results - FitLife Tracker", User: user},
		Searched: true,
		Filters:  filters,
	}

	results, err := h.service.Search(r.Context(), user.ID, model.ExerciseFilter{
		Keyword:  filters.Keyword,
		Type:     filters.Type,
		DateFrom: filters.DateFrom,
		DateTo:   filters.DateTo,
	})
	if err != nil {
		slog.Error("exercise search failed", slog.String("error", err.Error()))
		data.Error = "Search failed. Please try again."
	} else {
		data.Results = results
	}

	h.renderer.Render(w, http.StatusOK, "search-exercises", data)
}

// Delete は運動記録を削除して一覧へ戻す。
// 本人の記録でない場合は何も削除されないが、レスポンスは同じリダイレクト。
// POST /exercises/delete/{id}
func (h *ExerciseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
			slog.Error("failed to delete exercise", slog.String("error", err.Error()))
		}
	}

	http.Redirect(w, r, "/exercises", http.StatusSeeOther)
}

func (h *ExerciseHandler) renderAddErrors(w http.ResponseWriter, user *model.SessionUser, msgs []string, form view.ExerciseForm) {
	h.renderer.Render(w, http.StatusOK, "add-exercise", view.AddExerciseData{
		Base:   view.Base{Title: "Add Exercise - FitLife Tracker", User: user},
		Errors: msgs,
		Form:   form,
	})
}
