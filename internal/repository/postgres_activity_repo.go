package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fitlife/internal/model"
)

// PostgresActivityRepo は運動・食事を横断する集計と検索のリポジトリ。
type PostgresActivityRepo struct {
	db *sql.DB
}

// NewPostgresActivityRepo はPostgresActivityRepoを生成する。
func NewPostgresActivityRepo(db *sql.DB) *PostgresActivityRepo {
	return &PostgresActivityRepo{db: db}
}

// DashboardStats はダッシュボード用のユーザー統計をスカラーサブクエリで
// 1回の問い合わせにまとめて取得する。
func (r *PostgresActivityRepo) DashboardStats(ctx context.Context, userID int64) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	var weeklyCalories sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM exercises WHERE user_id = $1) AS total_exercises,
		    (SELECT COUNT(*) FROM nutrition WHERE user_id = $1) AS total_meals,
		    (SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = 'active') AS active_goals,
		    (SELECT SUM(calories_burned) FROM exercises
		     WHERE user_id = $1 AND date >= CURRENT_DATE - INTERVAL '7 days') AS weekly_calories`,
		userID,
	).Scan(&stats.TotalExercises, &stats.TotalMeals, &stats.ActiveGoals, &weeklyCalories)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	if weeklyCalories.Valid {
		v := int(weeklyCalories.Int64)
		stats.WeeklyCalories = &v
	}

	return stats, nil
}

// RecentActivities は運動と食事をUNION ALLした直近のアクティビティを
// date降順で最大limit件返す。
func (r *PostgresActivityRepo) RecentActivities(ctx context.Context, userID int64, limit int) ([]model.ActivitySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'exercise' AS type, id, exercise_name AS name, date, calories_burned AS value
		 FROM exercises
		 WHERE user_id = $1
		 UNION ALL
		 SELECT 'nutrition' AS type, id, meal_name AS name, date, calories AS value
		 FROM nutrition
		 WHERE user_id = $1
		 ORDER BY date DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	defer rows.Close()

	return collectSummaries(rows)
}

// SearchByName は運動名と食事名の両方をキーワードの部分一致で検索し、
// date降順で返す。検索は呼び出しユーザーのレコードに限定される。
func (r *PostgresActivityRepo) SearchByName(ctx context.Context, userID int64, keyword string) ([]model.ActivitySummary, error) {
	pattern := "%" + keyword + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'exercise' AS type, id, exercise_name AS name, date, calories_burned AS value
		 FROM exercises
		 WHERE user_id = $1 AND exercise_name ILIKE $2
		 UNION ALL
		 SELECT 'nutrition' AS type, id, meal_name AS name, date, calories AS value
		 FROM nutrition
		 WHERE user_id = $1 AND meal_name ILIKE $2
		 ORDER BY date DESC`,
		userID, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search activities: %w", err)
	}
	defer rows.Close()

	return collectSummaries(rows)
}

// compile-time interface check
var _ ActivityRepository = (*PostgresActivityRepo)(nil)
