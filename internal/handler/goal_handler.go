package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/fitlife/internal/goal"
	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/view"
)

// GoalServiceInterface は目標ハンドラーが必要とするサービスインターフェース。
type GoalServiceInterface interface {
	List(ctx context.Context, userID int64, status string) ([]model.Goal, error)
	Add(ctx context.Context, userID int64, input goal.AddInput) (*model.Goal, error)
	UpdateStatus(ctx context.Context, userID, goalID int64, status model.GoalStatus) error
	UpdateProgress(ctx context.Context, userID, goalID int64, currentValue float64) error
	Delete(ctx context.Context, userID, goalID int64) error
}

// GoalHandler は目標ページのHTTPハンドラー。
type GoalHandler struct {
	service  GoalServiceInterface
	renderer Renderer
	metrics  RecordMetrics
}

// NewGoalHandler はGoalHandlerを生成する。
func NewGoalHandler(service GoalServiceInterface, renderer Renderer, metrics RecordMetrics) *GoalHandler {
	return &GoalHandler{service: service, renderer: renderer, metrics: metrics}
}

// goalForm は目標追加フォームの入力。
type goalForm struct {
	Type        string `validate:"required,oneof=weight_loss muscle_gain endurance flexibility general_fitness"`
	Description string `validate:"required,max=500"`
	Unit        string `validate:"omitempty,max=20"`
}

// goalMessages は目標フォームの検証メッセージ。
var goalMessages = map[string]string{
	"Type.required":        "Invalid goal type",
	"Type.oneof":           "Invalid goal type",
	"Description.required": "Goal description is required",
	"Description.max":      "Description must be less than 500 characters",
	"Unit.max":             "Unit must be less than 20 characters",
}

// List は目標一覧ページを表示する。
// 並び順はステータス優先度（active < completed < abandoned）、次にtarget_date昇順。
// GET /goals
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	data := view.GoalsData{
		Base: view.Base{Title: "My Goals - FitLife Tracker", User: user},
	}

	goals, err := h.service.List(r.Context(), user.ID, "")
	if err != nil {
		slog.Error("failed to list goals", slog.String("error", err.Error()))
		data.Error = "Failed to load goals"
	} else {
		data.Goals = goals
	}

	h.renderer.Render(w, http.StatusOK, "goals", data)
}

// ShowAdd は目標追加フォームを表示する。
// GET /goals/add
func (h *GoalHandler) ShowAdd(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "add-goal", view.AddGoalData{
		Base: view.Base{Title: "Add Goal - FitLife Tracker", User: user},
	})
}

// Add は目標追加フォームを処理する。
// POST /goals/add
func (h *GoalHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderAddErrors(w, user, []string{"Failed to add goal. Please try again."}, view.GoalForm{})
		return
	}

	echo := view.GoalForm{
		Type:         r.PostFormValue("goal_type"),
		Description:  r.PostFormValue("goal_description"),
		TargetValue:  r.PostFormValue("target_value"),
		CurrentValue: r.PostFormValue("current_value"),
		Unit:         r.PostFormValue("unit"),
		TargetDate:   r.PostFormValue("target_date"),
	}

	var msgs []string

	targetValue, err := parseOptionalFloat(echo.TargetValue)
	if err != nil || (targetValue != nil && *targetValue < 0) {
		msgs = append(msgs, "Target value must be a positive number")
		targetValue = nil
	}

	currentValue, err := parseOptionalFloat(echo.CurrentValue)
	if err != nil || (currentValue != nil && *currentValue < 0) {
		msgs = append(msgs, "Current value must be a positive number")
		currentValue = nil
	}

	var targetDate *time.Time
	if echo.TargetDate != "" {
		d, err := parseDate(echo.TargetDate)
		if err != nil {
			msgs = append(msgs, "Please enter a valid date")
		} else {
			targetDate = &d
		}
	}

	form := goalForm{
		Type:        echo.Type,
		Description: echo.Description,
		Unit:        echo.Unit,
	}
	if err := validate.Struct(form); err != nil {
		msgs = append(msgs, validationMessages(err, goalMessages)...)
	}

	if len(msgs) > 0 {
		h.renderAddErrors(w, user, msgs, echo)
		return
	}

	_, err = h.service.Add(r.Context(), user.ID, goal.AddInput{
		Type:         form.Type,
		Description:  form.Description,
		TargetValue:  targetValue,
		CurrentValue: currentValue,
		Unit:         form.Unit,
		TargetDate:   targetDate,
	})
	if err != nil {
		slog.Error("failed to add goal", slog.String("error", err.Error()))
		h.renderAddErrors(w, user, []string{"Failed to add goal. Please try again."}, echo)
		return
	}

	h.metrics.RecordCreated("goal")
	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

// UpdateStatus は目標のステータスを更新して一覧へ戻す。
// 不正なステータスは更新せずにリダイレクトのみ行う。
// POST /goals/update-status/{id}
func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	status := r.PostFormValue("status")
	if !model.ValidGoalStatus(status) {
		http.Redirect(w, r, "/goals", http.StatusSeeOther)
		return
	}

	if id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		if err := h.service.UpdateStatus(r.Context(), user.ID, id, model.GoalStatus(status)); err != nil {
			slog.Error("failed to update goal status", slog.String("error", err.Error()))
		}
	}

	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

// UpdateProgress は目標の現在値を更新して一覧へ戻す。
// 数値でない・負の進捗値は更新せずにリダイレクトのみ行う。
// POST /goals/update-progress/{id}
func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	value, err := strconv.ParseFloat(r.PostFormValue("current_value"), 64)
	if err != nil || value < 0 {
		http.Redirect(w, r, "/goals", http.StatusSeeOther)
		return
	}

	if id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		if err := h.service.UpdateProgress(r.Context(), user.ID, id, value); err != nil {
			slog.Error("failed to update goal progress", slog.String("error", err.Error()))
		}
	}

	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

// Delete は目標を削除して一覧へ戻す。
// 本人の目標でない場合は何も削除されないが、レスポンスは同じリダイレクト。
// POST /goals/delete/{id}
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
			slog.Error("failed to delete goal", slog.String("error", err.Error()))
		}
	}

	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

func (h *GoalHandler) renderAddErrors(w http.ResponseWriter, user *model.SessionUser, msgs []string, form view.GoalForm) {
	h.renderer.Render(w, http.StatusOK, "add-goal", view.AddGoalData{
		Base:   view.Base{Title: "Add Goal - FitLife Tracker", User: user},
		Errors: msgs,
		Form:   form,
	})
}
