package model

import "time"

// ExerciseType は運動の種別を表す。
type ExerciseType string

const (
	ExerciseTypeCardio      ExerciseType = "cardio"
	ExerciseTypeStrength    ExerciseType = "strength"
	ExerciseTypeFlexibility ExerciseType = "flexibility"
	ExerciseTypeSports      ExerciseType = "sports"
)

// ValidExerciseType は運動種別が定義済みの値かを判定する。
func ValidExerciseType(t string) bool {
	switch ExerciseType(t) {
	case ExerciseTypeCardio, ExerciseTypeStrength, ExerciseTypeFlexibility, ExerciseTypeSports:
		return true
	}
	return false
}

// Exercise は1件の運動記録を表す。必ず1人のユーザーに属する。
type Exercise struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"user_id"`
	Name           string       `json:"exercise_name"`
	Type           ExerciseType `json:"exercise_type"`
	DurationMins   int          `json:"duration_minutes"`
	CaloriesBurned *int         `json:"calories_burned"`
	Date           time.Time    `json:"date"`
	Notes          string       `json:"notes"`
	CreatedAt      time.Time    `json:"created_at"`
}

// ExerciseFilter は運動検索のオプションフィルタ。
// ゼロ値のフィールドは条件を追加しない。
type ExerciseFilter struct {
	Keyword  string
	Type     string
	DateFrom string
	DateTo   string
}

// ExerciseTypeStats は運動種別ごとの集計結果。
// 集計はDBのネイティブ集約関数（COUNT/SUM/AVG）で行う。
type ExerciseTypeStats struct {
	Type          ExerciseType `json:"exercise_type"`
	Count         int          `json:"count"`
	TotalMinutes  int          `json:"total_minutes"`
	TotalCalories *int         `json:"total_calories"`
	AvgCalories   *float64     `json:"avg_calories"`
}
