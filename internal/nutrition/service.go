// Package nutrition は食事記録管理のドメインロジックを提供する。
package nutrition

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/repository"
	"github.com/hitoshi/fitlife/internal/security"
)

// summaryDays は食事一覧ページに表示する日次サマリーの対象日数。
const summaryDays = 7

// AddInput は食事記録追加への入力。範囲・種別の検証はハンドラ境界で完了している前提。
type AddInput struct {
	Name         string
	Type         string
	Calories     int
	ProteinGrams *float64
	CarbsGrams   *float64
	FatGrams     *float64
	Date         time.Time
}

// Service は食事記録のサービス層。
type Service struct {
	repo      repository.NutritionRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.NutritionRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// List はユーザーの食事記録一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]model.Meal, error) {
	meals, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load meals: %w", err)
	}
	return meals, nil
}

// Add は食事記録を追加する。食事名は保存前にサニタイズする。
// 未入力のマクロ栄養素はNULLとして保存される。
func (s *Service) Add(ctx context.Context, userID int64, input AddInput) (*model.Meal, error) {
	meal := &model.Meal{
		UserID:       userID,
		Name:         s.sanitizer.Sanitize(input.Name),
		Type:         model.MealType(input.Type),
		Calories:     input.Calories,
		ProteinGrams: input.ProteinGrams,
		CarbsGrams:   input.CarbsGrams,
		FatGrams:     input.FatGrams,
		Date:         input.Date,
	}

	if err := s.repo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to add meal: %w", err)
	}

	return meal, nil
}

// Delete は食事記録を削除する。所有者不一致は0行削除のno-op。
func (s *Service) Delete(ctx context.Context, userID, mealID int64) error {
	if err := s.repo.DeleteByIDAndUserID(ctx, mealID, userID); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

// WeeklySummary は食事一覧ページ用に直近7日間の日次集計を返す。
func (s *Service) WeeklySummary(ctx context.Context, userID int64) ([]model.DailyNutritionTotals, error) {
	return s.DailyTotals(ctx, userID, summaryDays)
}

// DailyTotals は直近days日間の日次集計を返す。
func (s *Service) DailyTotals(ctx context.Context, userID int64, days int) ([]model.DailyNutritionTotals, error) {
	totals, err := s.repo.DailyTotals(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily totals: %w", err)
	}
	return totals, nil
}
