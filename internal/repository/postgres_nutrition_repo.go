package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fitlife/internal/model"
)

// PostgresNutritionRepo はPostgreSQLを使用した食事記録リポジトリ。
type PostgresNutritionRepo struct {
	db *sql.DB
}

// NewPostgresNutritionRepo はPostgresNutritionRepoを生成する。
func NewPostgresNutritionRepo(db *sql.DB) *PostgresNutritionRepo {
	return &PostgresNutritionRepo{db: db}
}

const mealColumns = `id, user_id, meal_name, meal_type, calories,
	        protein_grams, carbs_grams, fat_grams, date, created_at`

// scanMeal は1行を読み取ってMealに変換する。
func scanMeal(row interface{ Scan(...interface{}) error }) (model.Meal, error) {
	var m model.Meal
	var protein, carbs, fat sql.NullFloat64

	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Type, &m.Calories,
		&protein, &carbs, &fat, &m.Date, &m.CreatedAt)
	if err != nil {
		return m, err
	}

	if protein.Valid {
		m.ProteinGrams = &protein.Float64
	}
	if carbs.Valid {
		m.CarbsGrams = &carbs.Float64
	}
	if fat.Valid {
		m.FatGrams = &fat.Float64
	}
	return m, nil
}

// ListByUserID はユーザーの食事記録一覧をdate降順・created_at降順で返す。
func (r *PostgresNutritionRepo) ListByUserID(ctx context.Context, userID int64) ([]model.Meal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mealColumns+`
		 FROM nutrition
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return meals, nil
}

// Create は食事記録を作成し、採番されたIDをmeal.IDに設定する。
func (r *PostgresNutritionRepo) Create(ctx context.Context, meal *model.Meal) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO nutrition (user_id, meal_name, meal_type, calories,
		                        protein_grams, carbs_grams, fat_grams, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		meal.UserID, meal.Name, meal.Type, meal.Calories,
		nullFloat(meal.ProteinGrams), nullFloat(meal.CarbsGrams), nullFloat(meal.FatGrams),
		meal.Date,
	).Scan(&meal.ID, &meal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID は指定IDかつ指定ユーザー所有の食事記録を削除する。
// 所有者不一致は0行削除のno-op。
func (r *PostgresNutritionRepo) DeleteByIDAndUserID(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM nutrition WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

// DailyTotals は直近days日間の1日ごとの栄養集計を日付降順で返す。
// 集計はすべてDBの集約関数で行う。
func (r *PostgresNutritionRepo) DailyTotals(ctx context.Context, userID int64, days int) ([]model.DailyNutritionTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date AS day,
		        SUM(calories) AS total_calories,
		        SUM(protein_grams) AS total_protein,
		        SUM(carbs_grams) AS total_carbs,
		        SUM(fat_grams) AS total_fat,
		        COUNT(*) AS meal_count
		 FROM nutrition
		 WHERE user_id = $1 AND date >= CURRENT_DATE - $2 * INTERVAL '1 day'
		 GROUP BY date
		 ORDER BY day DESC`,
		userID, days,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily totals: %w", err)
	}
	defer rows.Close()

	var totals []model.DailyNutritionTotals
	for rows.Next() {
		var t model.DailyNutritionTotals
		var protein, carbs, fat sql.NullFloat64

		if err := rows.Scan(&t.Day, &t.TotalCalories, &protein, &carbs, &fat, &t.MealCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily totals row: %w", err)
		}

		if protein.Valid {
			t.TotalProtein = &protein.Float64
		}
		if carbs.Valid {
			t.TotalCarbs = &carbs.Float64
		}
		if fat.Valid {
			t.TotalFat = &fat.Float64
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily totals: %w", err)
	}

	return totals, nil
}

// SearchSummaries は食事名の部分一致で最大limit件の要約を返す。
func (r *PostgresNutritionRepo) SearchSummaries(ctx context.Context, userID int64, keyword string, limit int) ([]model.ActivitySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'nutrition' AS type, id, meal_name AS name, date, calories AS value
		 FROM nutrition
		 WHERE user_id = $1 AND meal_name ILIKE $2
		 ORDER BY date DESC
		 LIMIT $3`,
		userID, "%"+keyword+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search meal summaries: %w", err)
	}
	defer rows.Close()

	return collectSummaries(rows)
}

// nullFloat はnilポインタをNULLに変換する。
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// compile-time interface check
var _ NutritionRepository = (*PostgresNutritionRepo)(nil)
