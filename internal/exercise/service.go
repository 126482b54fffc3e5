// Package exercise は運動記録管理のドメインロジックを提供する。
package exercise

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/repository"
	"github.com/hitoshi/fitlife/internal/security"
)

// AddInput は運動記録追加への入力。範囲・種別の検証はハンドラ境界で完了している前提。
type AddInput struct {
	Name           string
	Type           string
	DurationMins   int
	CaloriesBurned *int
	Date           time.Time
	Notes          string
}

// Service は運動記録のサービス層。
type Service struct {
	repo      repository.ExerciseRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.ExerciseRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// List はユーザーの運動記録一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]model.Exercise, error) {
	exercises, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercises: %w", err)
	}
	return exercises, nil
}

// Add は運動記録を追加する。自由入力テキスト（名前・メモ）は保存前に
// サニタイズする。calories_burnedが未入力の場合はNULLとして保存される。
func (s *Service) Add(ctx context.Context, userID int64, input AddInput) (*model.Exercise, error) {
	exercise := &model.Exercise{
		UserID:         userID,
		Name:           s.sanitizer.Sanitize(input.Name),
		Type:           model.ExerciseType(input.Type),
		DurationMins:   input.DurationMins,
		CaloriesBurned: input.CaloriesBurned,
		Date:           input.Date,
		Notes:          s.sanitizer.Sanitize(input.Notes),
	}

	if err := s.repo.Create(ctx, exercise); err != nil {
		return nil, fmt.Errorf("failed to add exercise: %w", err)
	}

	return exercise, nil
}

// Search は運動記録をオプションフィルタで検索する。
// キーワードはサニタイズしてから部分一致に使用する。
func (s *Service) Search(ctx context.Context, userID int64, filter model.ExerciseFilter) ([]model.Exercise, error) {
	filter.Keyword = s.sanitizer.Sanitize(filter.Keyword)

	results, err := s.repo.Search(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search exercises: %w", err)
	}
	return results, nil
}

// Delete は運動記録を削除する。所有者不一致の場合は何も起こらない
// （0行削除のno-op）。呼び出し側からは存在しないIDの削除と区別できない。
func (s *Service) Delete(ctx context.Context, userID, exerciseID int64) error {
	if err := s.repo.DeleteByIDAndUserID(ctx, exerciseID, userID); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil
}

// StatsByType は運動種別ごとの集計を返す。
func (s *Service) StatsByType(ctx context.Context, userID int64) ([]model.ExerciseTypeStats, error) {
	stats, err := s.repo.StatsByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise stats: %w", err)
	}
	return stats, nil
}
