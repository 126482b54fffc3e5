package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/fitlife/internal/metrics"
	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/recommend"
	"github.com/hitoshi/fitlife/internal/view"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	RateLimiter   *middleware.RateLimiter
	Logger        *slog.Logger

	// レンダリング
	Renderer Renderer

	// メトリクス
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	ExerciseService  ExerciseServiceInterface
	NutritionService NutritionServiceInterface
	GoalService      GoalServiceInterface
	ActivityService  ActivityServiceInterface
	WeatherProvider  recommend.Provider

	// ヘルスチェック
	HealthCheck http.HandlerFunc
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → (Session)
//
// セッションミドルウェアは3種類を使い分ける:
//   - ページルート: 未認証を /auth/login へ303リダイレクト
//   - APIルート: 未認証に401 {"error":"Unauthorized"}
//   - ホーム・アバウト・ログイン/登録ページ: あれば注入するだけのOptional
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(deps.Metrics.Middleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.Metrics, deps.AuthConfig)
	exerciseHandler := NewExerciseHandler(deps.ExerciseService, deps.Renderer, deps.Metrics)
	nutritionHandler := NewNutritionHandler(deps.NutritionService, deps.Renderer, deps.Metrics)
	goalHandler := NewGoalHandler(deps.GoalService, deps.Renderer, deps.Metrics)
	pageHandler := NewPageHandler(deps.ActivityService, deps.Renderer)
	apiHandler := NewAPIHandler(
		deps.ExerciseService,
		deps.NutritionService,
		deps.GoalService,
		deps.ActivityService,
		deps.WeatherProvider,
	)

	// --- 運用エンドポイント（セッション不要） ---
	r.Get("/health", deps.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	r.Handle("/static/*", view.StaticHandler())

	// --- 認証不要のページ（ログイン状態があれば表示に反映） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOptionalSessionMiddleware(deps.SessionFinder))

		r.Get("/", pageHandler.Home)
		r.Get("/about", pageHandler.About)

		r.Route("/auth", func(r chi.Router) {
			// ログイン・登録はIP単位のレート制限付き
			r.With(deps.RateLimiter.AuthMiddleware()).Get("/login", authHandler.ShowLogin)
			r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)
			r.With(deps.RateLimiter.AuthMiddleware()).Get("/register", authHandler.ShowRegister)
			r.With(deps.RateLimiter.AuthMiddleware()).Post("/register", authHandler.Register)
			r.Get("/logout", authHandler.Logout)
		})
	})

	// --- 認証必須のページ（未認証はログインページへリダイレクト） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewPageSessionMiddleware(deps.SessionFinder))

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", exerciseHandler.List)
			r.Get("/add", exerciseHandler.ShowAdd)
			r.Post("/add", exerciseHandler.Add)
			r.Get("/search", exerciseHandler.ShowSearch)
			r.Get("/search-result", exerciseHandler.SearchResult)
			r.Post("/delete/{id}", exerciseHandler.Delete)
		})

		r.Route("/nutrition", func(r chi.Router) {
			r.Get("/", nutritionHandler.List)
			r.Get("/add", nutritionHandler.ShowAdd)
			r.Post("/add", nutritionHandler.Add)
			r.Post("/delete/{id}", nutritionHandler.Delete)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", goalHandler.List)
			r.Get("/add", goalHandler.ShowAdd)
			r.Post("/add", goalHandler.Add)
			r.Post("/update-status/{id}", goalHandler.UpdateStatus)
			r.Post("/update-progress/{id}", goalHandler.UpdateProgress)
			r.Post("/delete/{id}", goalHandler.Delete)
		})

		r.Get("/search", pageHandler.ShowSearch)
		r.Get("/search-result", pageHandler.SearchResult)
	})

	// --- JSON API（未認証は401 JSON） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAPISessionMiddleware(deps.SessionFinder))

		r.Route("/api", func(r chi.Router) {
			r.Get("/exercises", apiHandler.ListExercises)
			r.Get("/exercises/stats", apiHandler.ExerciseStats)
			r.Get("/nutrition", apiHandler.ListNutrition)
			r.Get("/nutrition/stats", apiHandler.NutritionStats)
			r.Get("/goals", apiHandler.ListGoals)
			r.Get("/search", apiHandler.Search)
			r.Get("/weather/{city}", apiHandler.Weather)
		})
	})

	// マッチしなかったパスは404ページ
	r.NotFound(pageHandler.NotFound)

	return r
}
