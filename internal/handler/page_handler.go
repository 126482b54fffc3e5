package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/view"
)

// ActivityServiceInterface はダッシュボード・検索が必要とするサービスインターフェース。
type ActivityServiceInterface interface {
	// Dashboard はユーザー統計と直近アクティビティを返す。
	Dashboard(ctx context.Context, userID int64) (*model.DashboardStats, []model.ActivitySummary, error)
	// SearchAll は運動と食事を横断してキーワード検索する。
	SearchAll(ctx context.Context, userID int64, keyword string) ([]model.ActivitySummary, error)
	// QuickSearch は種別を絞った上位10件の検索を行う。
	QuickSearch(ctx context.Context, userID int64, keyword, resourceType string) ([]model.ActivitySummary, error)
}

// PageHandler はダッシュボード・検索・静的ページのHTTPハンドラー。
type PageHandler struct {
	service  ActivityServiceInterface
	renderer Renderer
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(service ActivityServiceInterface, renderer Renderer) *PageHandler {
	return &PageHandler{service: service, renderer: renderer}
}

// Home はホームページを表示する。
// ログイン済みの場合は統計と直近アクティビティ入りのダッシュボード、
// 未ログインの場合はウェルカムページ。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil || user == nil {
		h.renderer.Render(w, http.StatusOK, "index", view.DashboardData{
			Base: view.Base{Title: "Welcome - FitLife Tracker"},
		})
		return
	}

	data := view.DashboardData{
		Base: view.Base{Title: "Dashboard - FitLife Tracker", User: user},
	}

	stats, activities, err := h.service.Dashboard(r.Context(), user.ID)
	if err != nil {
		// 統計が取れなくてもダッシュボード自体は表示する
		slog.Error("failed to load dashboard", slog.String("error", err.Error()))
	} else {
		data.Stats = stats
		data.Activities = activities
	}

	h.renderer.Render(w, http.StatusOK, "index", data)
}

// About はアバウトページを表示する。
// GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.SessionUserFromContext(r.Context())

	h.renderer.Render(w, http.StatusOK, "about", view.MessageData{
		Base: view.Base{Title: "About - FitLife Tracker", User: user},
	})
}

// ShowSearch はサイト内検索フォームを表示する。
// GET /search
func (h *PageHandler) ShowSearch(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "search", view.SearchData{
		Base: view.Base{Title: "Search - FitLife Tracker", User: user},
	})
}

// SearchResult はサイト内検索を実行して結果を表示する。
// 検索対象は本人の運動・食事記録のみ。
// GET /search-result?keyword=
func (h *PageHandler) SearchResult(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.SessionUserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	keyword := r.URL.Query().Get("keyword")
	data := view.SearchData{
		Base:    view.Base{Title: "Search Results - FitLife Tracker", User: user},
		Keyword: keyword,
	}

	if keyword == "" {
		data.Message = "Please enter a search term"
		h.renderer.Render(w, http.StatusOK, "search", data)
		return
	}

	results, err := h.service.SearchAll(r.Context(), user.ID, keyword)
	if err != nil {
		slog.Error("site search failed", slog.String("error", err.Error()))
		data.Message = "An error occurred during search"
		h.renderer.Render(w, http.StatusOK, "search", data)
		return
	}

	data.Searched = true
	data.Results = results
	if len(results) == 0 {
		data.Message = "No results found"
	}

	h.renderer.Render(w, http.StatusOK, "search", data)
}

// NotFound は404ページを表示する。
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.SessionUserFromContext(r.Context())

	h.renderer.Render(w, http.StatusNotFound, "404", view.MessageData{
		Base:    view.Base{Title: "Page Not Found", User: user},
		Message: "The page you are looking for does not exist.",
	})
}
