// Package activity は運動・食事を横断するダッシュボードと検索のロジックを提供する。
package activity

import (
	"context"
	"fmt"

	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/repository"
	"github.com/hitoshi/fitlife/internal/security"
)

// recentLimit はダッシュボードに表示する直近アクティビティの件数。
const recentLimit = 5

// quickSearchLimit はAJAX検索の1種別あたりの最大件数。
const quickSearchLimit = 10

// Service は横断的な集計・検索のサービス層。
type Service struct {
	activityRepo  repository.ActivityRepository
	exerciseRepo  repository.ExerciseRepository
	nutritionRepo repository.NutritionRepository
	sanitizer     security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	activityRepo repository.ActivityRepository,
	exerciseRepo repository.ExerciseRepository,
	nutritionRepo repository.NutritionRepository,
	sanitizer security.InputSanitizerService,
) *Service {
	return &Service{
		activityRepo:  activityRepo,
		exerciseRepo:  exerciseRepo,
		nutritionRepo: nutritionRepo,
		sanitizer:     sanitizer,
	}
}

// Dashboard はダッシュボード用の統計と直近アクティビティを返す。
func (s *Service) Dashboard(ctx context.Context, userID int64) (*model.DashboardStats, []model.ActivitySummary, error) {
	stats, err := s.activityRepo.DashboardStats(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	recent, err := s.activityRepo.RecentActivities(ctx, userID, recentLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recent activities: %w", err)
	}

	return stats, recent, nil
}

// SearchAll は運動名と食事名の両方をキーワードで検索する。
// 検索は呼び出しユーザーのレコードに限定される。
func (s *Service) SearchAll(ctx context.Context, userID int64, keyword string) ([]model.ActivitySummary, error) {
	keyword = s.sanitizer.Sanitize(keyword)
	if keyword == "" {
		return nil, nil
	}

	results, err := s.activityRepo.SearchByName(ctx, userID, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search activities: %w", err)
	}
	return results, nil
}

// QuickSearch はAJAX検索用に指定種別の要約を最大10件返す。
// resourceTypeは "exercises"、"nutrition"、または空（運動を検索）。
func (s *Service) QuickSearch(ctx context.Context, userID int64, keyword, resourceType string) ([]model.ActivitySummary, error) {
	keyword = s.sanitizer.Sanitize(keyword)
	if keyword == "" {
		return nil, nil
	}

	switch resourceType {
	case "nutrition":
		results, err := s.nutritionRepo.SearchSummaries(ctx, userID, keyword, quickSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to search meals: %w", err)
		}
		return results, nil
	default:
		results, err := s.exerciseRepo.SearchSummaries(ctx, userID, keyword, quickSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to search exercises: %w", err)
		}
		return results, nil
	}
}
