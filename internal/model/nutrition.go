package model

import "time"

// MealType は食事の種別を表す。
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// ValidMealType は食事種別が定義済みの値かを判定する。
func ValidMealType(t string) bool {
	switch MealType(t) {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// Meal は1件の食事記録を表す。必ず1人のユーザーに属する。
// マクロ栄養素（タンパク質・炭水化物・脂質）は省略可能でNULLを許容する。
type Meal struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"meal_name"`
	Type         MealType  `json:"meal_type"`
	Calories     int       `json:"calories"`
	ProteinGrams *float64  `json:"protein_grams"`
	CarbsGrams   *float64  `json:"carbs_grams"`
	FatGrams     *float64  `json:"fat_grams"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// DailyNutritionTotals は1日分の栄養集計。
// GROUP BY DATE(date) によるDB側集計の結果行。
type DailyNutritionTotals struct {
	Day           time.Time `json:"day"`
	TotalCalories int       `json:"total_calories"`
	TotalProtein  *float64  `json:"total_protein"`
	TotalCarbs    *float64  `json:"total_carbs"`
	TotalFat      *float64  `json:"total_fat"`
	MealCount     int       `json:"meal_count"`
}
