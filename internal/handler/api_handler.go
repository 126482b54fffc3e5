package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/recommend"
)

// defaultStatsDays は栄養統計のデフォルト対象日数。
const defaultStatsDays = 7

// APIHandler はJSON APIのHTTPハンドラー。
// 全エンドポイントはAPIセッションミドルウェアの背後に置かれ、
// 未認証のリクエストはここに到達しない。
type APIHandler struct {
	exercises ExerciseServiceInterface
	nutrition NutritionServiceInterface
	goals     GoalServiceInterface
	activity  ActivityServiceInterface
	weather   recommend.Provider
}

// NewAPIHandler はAPIHandlerを生成する。
func NewAPIHandler(
	exercises ExerciseServiceInterface,
	nutrition NutritionServiceInterface,
	goals GoalServiceInterface,
	activity ActivityServiceInterface,
	weather recommend.Provider,
) *APIHandler {
	return &APIHandler{
		exercises: exercises,
		nutrition: nutrition,
		goals:     goals,
		activity:  activity,
		weather:   weather,
	}
}

// --- レスポンス型 ---

// listResponse は件数付きの一覧レスポンス。
type listResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

// dataResponse は件数なしのデータレスポンス。
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// statsResponse は対象期間付きの統計レスポンス。
type statsResponse struct {
	Success bool   `json:"success"`
	Period  string `json:"period"`
	Data    any    `json:"data"`
}

// searchResponse は統合検索のレスポンス。
type searchResponse struct {
	Success bool                    `json:"success"`
	Query   string                  `json:"query,omitempty"`
	Count   int                     `json:"count"`
	Results []model.ActivitySummary `json:"results"`
}

// weatherResponse は天候レコメンドのレスポンス。
type weatherResponse struct {
	Success         bool               `json:"success"`
	Weather         *recommend.Weather `json:"weather"`
	Recommendations []string           `json:"recommendations"`
}

// ListExercises は本人の全運動記録を返す。
// GET /api/exercises
func (h *APIHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	exercises, err := h.exercises.List(r.Context(), user.ID)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []model.Exercise{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(exercises),
		Data:    exercises,
	})
}

// ExerciseStats は運動種別ごとの集計を返す。
// GET /api/exercises/stats
func (h *APIHandler) ExerciseStats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.exercises.StatsByType(r.Context(), user.ID)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if stats == nil {
		stats = []model.ExerciseTypeStats{}
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: stats})
}

// ListNutrition は本人の全食事記録を返す。
// GET /api/nutrition
func (h *APIHandler) ListNutrition(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	meals, err := h.nutrition.List(r.Context(), user.ID)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if meals == nil {
		meals = []model.Meal{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(meals),
		Data:    meals,
	})
}

// NutritionStats は日別の栄養集計を返す。
// daysが数値として解釈できない・1未満の場合は7日にフォールバックする。
// GET /api/nutrition/stats?days=N
func (h *APIHandler) NutritionStats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	days := defaultStatsDays
	if s := r.URL.Query().Get("days"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			days = v
		}
	}

	totals, err := h.nutrition.DailyTotals(r.Context(), user.ID, days)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if totals == nil {
		totals = []model.DailyNutritionTotals{}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Success: true,
		Period:  fmt.Sprintf("%d days", days),
		Data:    totals,
	})
}

// ListGoals は本人の目標を返す。statusで絞り込める。
// GET /api/goals?status=
func (h *APIHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	goals, err := h.goals.List(r.Context(), user.ID, r.URL.Query().Get("status"))
	if err != nil {
		handleAPIError(w, r, err)
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(goals),
		Data:    goals,
	})
}

// Search は運動または食事をキーワード検索して上位10件を返す。
// typeが"nutrition"の場合は食事、それ以外は運動を検索する。
// qが空の場合は空の結果を成功として返す。
// GET /api/search?q=&type=
func (h *APIHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, searchResponse{
			Success: true,
			Results: []model.ActivitySummary{},
		})
		return
	}

	results, err := h.activity.QuickSearch(r.Context(), user.ID, q, r.URL.Query().Get("type"))
	if err != nil {
		slog.Error("api search failed", slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if results == nil {
		results = []model.ActivitySummary{}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Query:   q,
		Count:   len(results),
		Results: results,
	})
}

// Weather は都市の天候と、天候に応じた運動レコメンドを返す。
// GET /api/weather/{city}
func (h *APIHandler) Weather(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.SessionUserFromContext(r.Context()); err != nil {
		writeAPIError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	city := chi.URLParam(r, "city")

	weather, err := h.weather.Current(city)
	if err != nil {
		slog.Error("weather fetch failed", slog.String("city", city), slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}

	writeJSON(w, http.StatusOK, weatherResponse{
		Success:         true,
		Weather:         weather,
		Recommendations: recommend.ForWeather(weather),
	})
}
