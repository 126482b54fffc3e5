package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fitlife/internal/model"
)

// PostgresExerciseRepo はPostgreSQLを使用した運動記録リポジトリ。
type PostgresExerciseRepo struct {
	db *sql.DB
}

// NewPostgresExerciseRepo はPostgresExerciseRepoを生成する。
func NewPostgresExerciseRepo(db *sql.DB) *PostgresExerciseRepo {
	return &PostgresExerciseRepo{db: db}
}

const exerciseColumns = `id, user_id, exercise_name, exercise_type, duration_minutes,
	        calories_burned, date, notes, created_at`

// scanExercise は1行を読み取ってExerciseに変換する。
func scanExercise(row interface{ Scan(...interface{}) error }) (model.Exercise, error) {
	var e model.Exercise
	var calories sql.NullInt64
	var notes sql.NullString

	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Type, &e.DurationMins,
		&calories, &e.Date, &notes, &e.CreatedAt)
	if err != nil {
		return e, err
	}

	if calories.Valid {
		v := int(calories.Int64)
		e.CaloriesBurned = &v
	}
	e.Notes = notes.String
	return e, nil
}

// ListByUserID はユーザーの運動記録一覧をdate降順・created_at降順で返す。
func (r *PostgresExerciseRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Exercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	return collectExercises(rows)
}

// Create は運動記録を作成し、採番されたIDをexercise.IDに設定する。
func (r *PostgresExerciseRepo) Create(ctx context.Context, exercise *model.Exercise) error {
	var calories sql.NullInt64
	if exercise.CaloriesBurned != nil {
		calories = sql.NullInt64{Int64: int64(*exercise.CaloriesBurned), Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO exercises (user_id, exercise_name, exercise_type, duration_minutes,
		                        calories_burned, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		exercise.UserID, exercise.Name, exercise.Type, exercise.DurationMins,
		calories, exercise.Date, nullString(exercise.Notes),
	).Scan(&exercise.ID, &exercise.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert exercise: %w", err)
	}
	return nil
}

// Search はユーザーの運動記録をオプションフィルタで絞り込んで返す。
// 存在するフィルタだけがAND述語として追加され、キーワードは
// 大文字小文字を無視した部分一致でマッチする。
func (r *PostgresExerciseRepo) Search(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error) {
	b := NewUserScope(userID).
		AndIf(filter.Keyword != "", "exercise_name ILIKE ?", "%"+filter.Keyword+"%").
		AndIf(filter.Type != "" && filter.Type != "all", "exercise_type = ?", filter.Type).
		AndIf(filter.DateFrom != "", "date >= ?", filter.DateFrom).
		AndIf(filter.DateTo != "", "date <= ?", filter.DateTo)

	query, args := b.Build(
		`SELECT `+exerciseColumns+` FROM exercises`,
		`ORDER BY date DESC`,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}
	defer rows.Close()

	return collectExercises(rows)
}

// DeleteByIDAndUserID は指定IDかつ指定ユーザー所有の運動記録を削除する。
// 所有者不一致は0行削除のno-op。
func (r *PostgresExerciseRepo) DeleteByIDAndUserID(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil
}

// StatsByType は運動種別ごとの集計をDBの集約関数で計算して返す。
// グルーピングキーの昇順で決定的に並ぶ。
func (r *PostgresExerciseRepo) StatsByType(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT exercise_type,
		        COUNT(*) AS count,
		        SUM(duration_minutes) AS total_minutes,
		        SUM(calories_burned) AS total_calories,
		        AVG(calories_burned) AS avg_calories
		 FROM exercises
		 WHERE user_id = $1
		 GROUP BY exercise_type
		 ORDER BY exercise_type`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate exercise stats: %w", err)
	}
	defer rows.Close()

	var stats []model.ExerciseTypeStats
	for rows.Next() {
		var s model.ExerciseTypeStats
		var totalCalories sql.NullInt64
		var avgCalories sql.NullFloat64

		if err := rows.Scan(&s.Type, &s.Count, &s.TotalMinutes, &totalCalories, &avgCalories); err != nil {
			return nil, fmt.Errorf("failed to scan exercise stats row: %w", err)
		}

		if totalCalories.Valid {
			v := int(totalCalories.Int64)
			s.TotalCalories = &v
		}
		if avgCalories.Valid {
			v := avgCalories.Float64
			s.AvgCalories = &v
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exercise stats: %w", err)
	}

	return stats, nil
}

// SearchSummaries は運動名の部分一致で最大limit件の要約を返す。
func (r *PostgresExerciseRepo) SearchSummaries(ctx context.Context, userID int64, keyword string, limit int) ([]model.ActivitySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'exercise' AS type, id, exercise_name AS name, date, calories_burned AS value
		 FROM exercises
		 WHERE user_id = $1 AND exercise_name ILIKE $2
		 ORDER BY date DESC
		 LIMIT $3`,
		userID, "%"+keyword+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercise summaries: %w", err)
	}
	defer rows.Close()

	return collectSummaries(rows)
}

// collectExercises はクエリ結果の全行をExerciseスライスに変換する。
func collectExercises(rows *sql.Rows) ([]model.Exercise, error) {
	var exercises []model.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise row: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exercises: %w", err)
	}
	return exercises, nil
}

// collectSummaries はクエリ結果の全行をActivitySummaryスライスに変換する。
func collectSummaries(rows *sql.Rows) ([]model.ActivitySummary, error) {
	var results []model.ActivitySummary
	for rows.Next() {
		var a model.ActivitySummary
		var value sql.NullInt64

		if err := rows.Scan(&a.Type, &a.ID, &a.Name, &a.Date, &value); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		if value.Valid {
			v := int(value.Int64)
			a.Value = &v
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return results, nil
}

// nullString は空文字列をNULLに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// compile-time interface check
var _ ExerciseRepository = (*PostgresExerciseRepo)(nil)
