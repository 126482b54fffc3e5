// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/fitlife/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	// 認証時の検索はユーザー名のみで行い、emailでは検索しない。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// ExistsByUsernameOrEmail はユーザー名またはemailが既に使われているかを
	// 1回の問い合わせで確認する。INSERTとトランザクションを共有しないため、
	// 確認後のINSERTが一意制約違反で失敗する良性の競合が起こり得る。
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに設定する。
	// 一意制約違反の場合はErrDuplicateKeyを返す。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。ユーザー情報のスナップショットも一緒に保存する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れまたは未登録の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを一括削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ExerciseRepository は運動記録の永続化インターフェース。
// 個人レコードへの全操作はレコードIDだけでなく必ずユーザーIDでもスコープする。
type ExerciseRepository interface {
	// ListByUserID はユーザーの運動記録一覧をdate降順・created_at降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.Exercise, error)

	// Create は運動記録を作成し、採番されたIDをexercise.IDに設定する。
	Create(ctx context.Context, exercise *model.Exercise) error

	// Search はユーザーの運動記録をオプションフィルタで絞り込んで返す。
	// ゼロ値のフィルタ項目は条件を追加しない。
	Search(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error)

	// DeleteByIDAndUserID は指定IDかつ指定ユーザー所有の運動記録を削除する。
	// 所有者不一致の場合は0行削除のno-opとなり、エラーは返さない。
	DeleteByIDAndUserID(ctx context.Context, id, userID int64) error

	// StatsByType は運動種別ごとの件数・合計時間・合計/平均カロリーを返す。
	// 結果は種別の昇順で決定的に並ぶ。
	StatsByType(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error)

	// SearchSummaries は運動名の部分一致（大文字小文字無視）で最大limit件の要約を返す。
	SearchSummaries(ctx context.Context, userID int64, keyword string, limit int) ([]model.ActivitySummary, error)
}

// NutritionRepository は食事記録の永続化インターフェース。
type NutritionRepository interface {
	// ListByUserID はユーザーの食事記録一覧をdate降順・created_at降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.Meal, error)

	// Create は食事記録を作成し、採番されたIDをmeal.IDに設定する。
	Create(ctx context.Context, meal *model.Meal) error

	// DeleteByIDAndUserID は指定IDかつ指定ユーザー所有の食事記録を削除する。
	// 所有者不一致の場合は0行削除のno-opとなる。
	DeleteByIDAndUserID(ctx context.Context, id, userID int64) error

	// DailyTotals は直近days日間の1日ごとの栄養集計を日付降順で返す。
	DailyTotals(ctx context.Context, userID int64, days int) ([]model.DailyNutritionTotals, error)

	// SearchSummaries は食事名の部分一致（大文字小文字無視）で最大limit件の要約を返す。
	SearchSummaries(ctx context.Context, userID int64, keyword string, limit int) ([]model.ActivitySummary, error)
}

// GoalRepository は目標データの永続化インターフェース。
type GoalRepository interface {
	// ListByUserID はユーザーの目標一覧を返す。
	// 並び順はステータス優先度（active < completed < abandoned）、次にtarget_date昇順。
	// statusが空でない場合はそのステータスのみに絞り込む。
	ListByUserID(ctx context.Context, userID int64, status string) ([]model.Goal, error)

	// Create は目標を作成し、採番されたIDをgoal.IDに設定する。
	Create(ctx context.Context, goal *model.Goal) error

	// UpdateStatus は指定IDかつ指定ユーザー所有の目標のステータスを更新する。
	// 同一値への更新は冪等に成功する。所有者不一致はno-op。
	UpdateStatus(ctx context.Context, id, userID int64, status model.GoalStatus) error

	// UpdateProgress は指定IDかつ指定ユーザー所有の目標のcurrent_valueを更新する。
	// 所有者不一致はno-op。
	UpdateProgress(ctx context.Context, id, userID int64, currentValue float64) error

	// DeleteByIDAndUserID は指定IDかつ指定ユーザー所有の目標を削除する。
	// 所有者不一致はno-op。
	DeleteByIDAndUserID(ctx context.Context, id, userID int64) error
}

// ActivityRepository は運動・食事を横断する集計と検索のインターフェース。
type ActivityRepository interface {
	// DashboardStats はダッシュボード用のユーザー統計を1回の問い合わせで返す。
	DashboardStats(ctx context.Context, userID int64) (*model.DashboardStats, error)

	// RecentActivities は運動と食事をUNIONした直近のアクティビティをdate降順で返す。
	RecentActivities(ctx context.Context, userID int64, limit int) ([]model.ActivitySummary, error)

	// SearchByName は運動名と食事名の両方を部分一致で検索しdate降順で返す。
	SearchByName(ctx context.Context, userID int64, keyword string) ([]model.ActivitySummary, error)
}
