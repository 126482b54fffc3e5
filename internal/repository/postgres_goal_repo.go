package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/fitlife/internal/model"
)

// PostgresGoalRepo はPostgreSQLを使用した目標リポジトリ。
type PostgresGoalRepo struct {
	db *sql.DB
}

// NewPostgresGoalRepo はPostgresGoalRepoを生成する。
func NewPostgresGoalRepo(db *sql.DB) *PostgresGoalRepo {
	return &PostgresGoalRepo{db: db}
}

const goalColumns = `id, user_id, goal_type, goal_description, target_value,
	        current_value, unit, target_date, status, created_at`

// goalStatusOrder はステータス優先度順（active < completed < abandoned）の
// 固定並び替え式。
const goalStatusOrder = `CASE status
		    WHEN 'active' THEN 1
		    WHEN 'completed' THEN 2
		    WHEN 'abandoned' THEN 3
		 END`

// scanGoal は1行を読み取ってGoalに変換する。
func scanGoal(row interface{ Scan(...interface{}) error }) (model.Goal, error) {
	var g model.Goal
	var target, current sql.NullFloat64
	var unit sql.NullString
	var targetDate sql.NullTime

	err := row.Scan(&g.ID, &g.UserID, &g.Type, &g.Description, &target,
		&current, &unit, &targetDate, &g.Status, &g.CreatedAt)
	if err != nil {
		return g, err
	}

	if target.Valid {
		g.TargetValue = &target.Float64
	}
	if current.Valid {
		g.CurrentValue = &current.Float64
	}
	g.Unit = unit.String
	if targetDate.Valid {
		t := targetDate.Time
		g.TargetDate = &t
	}
	return g, nil
}

// ListByUserID はユーザーの目標一覧を返す。
// ステータス優先度、次にtarget_date昇順（NULLは末尾）で決定的に並ぶ。
// statusが空でない場合はそのステータスのみに絞り込む。
func (r *PostgresGoalRepo) ListByUserID(ctx context.Context, userID int64, status string) ([]model.Goal, error) {
	b := NewUserScope(userID).
		AndIf(status != "", "status = ?", status)

	query, args := b.Build(
		`SELECT `+goalColumns+` FROM goals`,
		`ORDER BY `+goalStatusOrder+`, target_date ASC NULLS LAST`,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}

// Create は目標を作成し、採番されたIDとステータスをgoalに設定する。
// statusはDB側のデフォルト（active）に任せる。
func (r *PostgresGoalRepo) Create(ctx context.Context, goal *model.Goal) error {
	var targetDate sql.NullTime
	if goal.TargetDate != nil {
		targetDate = sql.NullTime{Time: *goal.TargetDate, Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO goals (user_id, goal_type, goal_description, target_value,
		                    current_value, unit, target_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, status, created_at`,
		goal.UserID, goal.Type, goal.Description,
		nullFloat(goal.TargetValue), nullFloat(goal.CurrentValue),
		nullString(goal.Unit), targetDate,
	).Scan(&goal.ID, &goal.Status, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

// UpdateStatus は指定IDかつ指定ユーザー所有の目標のステータスを更新する。
// 同一値への更新は冪等に成功し、所有者不一致は0行更新のno-op。
func (r *PostgresGoalRepo) UpdateStatus(ctx context.Context, id, userID int64, status model.GoalStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE goals SET status = $1 WHERE id = $2 AND user_id = $3`,
		status, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}
	return nil
}

// UpdateProgress は指定IDかつ指定ユーザー所有の目標のcurrent_valueを更新する。
// 所有者不一致は0行更新のno-op。
func (r *PostgresGoalRepo) UpdateProgress(ctx context.Context, id, userID int64, currentValue float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_value = $1 WHERE id = $2 AND user_id = $3`,
		currentValue, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID は指定IDかつ指定ユーザー所有の目標を削除する。
// 所有者不一致は0行削除のno-op。
func (r *PostgresGoalRepo) DeleteByIDAndUserID(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// compile-time interface check
var _ GoalRepository = (*PostgresGoalRepo)(nil)
