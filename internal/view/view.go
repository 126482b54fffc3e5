// Package view はhtml/templateによるサーバーサイドレンダリングを提供する。
// テンプレートはバイナリに埋め込み、起動時に全ページを事前パースする。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/fitlife/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler は埋め込み静的ファイル（CSS・JS）を配信するハンドラーを返す。
// /static/ プレフィックスでマウントする。
func StaticHandler() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(mustSub(staticFS, "static"))))
}

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// pages はレイアウトと組み合わせてパースするページテンプレートの一覧。
var pages = []string{
	"login",
	"register",
	"index",
	"exercises",
	"add-exercise",
	"search-exercises",
	"nutrition",
	"add-nutrition",
	"goals",
	"add-goal",
	"search",
	"about",
	"404",
	"error",
}

// funcMap はテンプレートから使える整形ヘルパー。
// NULL許容カラム（ポインタ型）は未入力時に "-" を表示する。
var funcMap = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"formatDatePtr": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("2006-01-02")
	},
	"intOrDash": func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	},
	"floatOrDash": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
}

// Renderer はページテンプレートのレンダラー。
type Renderer struct {
	templates map[string]*template.Template
}

// New は埋め込みテンプレートをパースしてRendererを生成する。
// ページが1つでもパースに失敗した場合はエラーを返す。
func New() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))

	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcMap).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{templates: templates}, nil
}

// Render は指定ページをレイアウト込みでレンダリングする。
// 未知のページ名やテンプレート実行エラーは500にフォールバックする。
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.templates[page]
	if !ok {
		slog.Error("unknown template page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("failed to render template", "page", page, "error", err)
	}
}

// --- ページごとの描画データ ---

// Base は全ページ共通の描画データ。Userはログインしていない場合nil。
type Base struct {
	Title string
	User  *model.SessionUser
}

// LoginData はログインページの描画データ。
type LoginData struct {
	Base
	Error string
}

// RegisterForm は登録フォームの入力エコーバック用データ。
// パスワードは再表示しない。
type RegisterForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// RegisterData は登録ページの描画データ。
type RegisterData struct {
	Base
	Errors []string
	Form   RegisterForm
}

// DashboardData はダッシュボードの描画データ。未ログイン時はStatsがnil。
type DashboardData struct {
	Base
	Stats      *model.DashboardStats
	Activities []model.ActivitySummary
}

// ExercisesData は運動記録一覧の描画データ。
type ExercisesData struct {
	Base
	Exercises []model.Exercise
	Error     string
}

// ExerciseForm は運動記録追加フォームのエコーバック用データ。
type ExerciseForm struct {
	Name           string
	Type           string
	DurationMins   string
	CaloriesBurned string
	Date           string
	Notes          string
}

// AddExerciseData は運動記録追加ページの描画データ。
type AddExerciseData struct {
	Base
	Errors []string
	Form   ExerciseForm
}

// ExerciseSearchForm は運動検索フォームのエコーバック用データ。
type ExerciseSearchForm struct {
	Keyword  string
	Type     string
	DateFrom string
	DateTo   string
}

// SearchExercisesData は運動検索ページの描画データ。
// Searchedがfalseの場合は検索前のフォームのみを表示する。
type SearchExercisesData struct {
	Base
	Searched bool
	Results  []model.Exercise
	Filters  ExerciseSearchForm
	Error    string
}

// NutritionData は食事記録一覧の描画データ。直近7日間の日別集計を含む。
type NutritionData struct {
	Base
	Meals   []model.Meal
	Summary []model.DailyNutritionTotals
	Error   string
}

// MealForm は食事記録追加フォームのエコーバック用データ。
type MealForm struct {
	Name     string
	Type     string
	Calories string
	Protein  string
	Carbs    string
	Fat      string
	Date     string
}

// AddNutritionData は食事記録追加ページの描画データ。
type AddNutritionData struct {
	Base
	Errors []string
	Form   MealForm
}

// GoalsData は目標一覧の描画データ。
type GoalsData struct {
	Base
	Goals []model.Goal
	Error string
}

// GoalForm は目標追加フォームのエコーバック用データ。
type GoalForm struct {
	Type         string
	Description  string
	TargetValue  string
	CurrentValue string
	Unit         string
	TargetDate   string
}

// AddGoalData は目標追加ページの描画データ。
type AddGoalData struct {
	Base
	Errors []string
	Form   GoalForm
}

// SearchData はサイト内検索ページの描画データ。
type SearchData struct {
	Base
	Searched bool
	Keyword  string
	Results  []model.ActivitySummary
	Message  string
}

// MessageData はメッセージのみのページ（404・エラー）の描画データ。
type MessageData struct {
	Base
	Message string
}
