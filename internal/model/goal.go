package model

import "time"

// GoalType は目標の種別を表す。
type GoalType string

const (
	GoalTypeWeightLoss     GoalType = "weight_loss"
	GoalTypeMuscleGain     GoalType = "muscle_gain"
	GoalTypeEndurance      GoalType = "endurance"
	GoalTypeFlexibility    GoalType = "flexibility"
	GoalTypeGeneralFitness GoalType = "general_fitness"
)

// ValidGoalType は目標種別が定義済みの値かを判定する。
func ValidGoalType(t string) bool {
	switch GoalType(t) {
	case GoalTypeWeightLoss, GoalTypeMuscleGain, GoalTypeEndurance,
		GoalTypeFlexibility, GoalTypeGeneralFitness:
		return true
	}
	return false
}

// GoalStatus は目標の進行状態を表す。
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// ValidGoalStatus は目標ステータスが定義済みの値かを判定する。
func ValidGoalStatus(s string) bool {
	switch GoalStatus(s) {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusAbandoned:
		return true
	}
	return false
}

// Goal はユーザーのフィットネス目標を表す。必ず1人のユーザーに属する。
// statusとcurrent_valueは所有ユーザーのみが個別に更新できる。
type Goal struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Type         GoalType   `json:"goal_type"`
	Description  string     `json:"goal_description"`
	TargetValue  *float64   `json:"target_value"`
	CurrentValue *float64   `json:"current_value"`
	Unit         string     `json:"unit"`
	TargetDate   *time.Time `json:"target_date"`
	Status       GoalStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}
