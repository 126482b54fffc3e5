package model

import "time"

// ActivitySummary は運動と食事を横断した要約行。
// ダッシュボードの直近アクティビティと統合検索の結果に使用する。
type ActivitySummary struct {
	Type  string    `json:"type"` // "exercise" または "nutrition"
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Date  time.Time `json:"date"`
	Value *int      `json:"value"` // 消費カロリーまたは摂取カロリー
}

// DashboardStats はダッシュボードに表示するユーザー統計。
// スカラーサブクエリで1回の問い合わせにまとめて取得する。
type DashboardStats struct {
	TotalExercises int  `json:"total_exercises"`
	TotalMeals     int  `json:"total_meals"`
	ActiveGoals    int  `json:"active_goals"`
	WeeklyCalories *int `json:"weekly_calories"`
}
