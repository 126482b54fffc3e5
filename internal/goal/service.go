// Package goal はフィットネス目標管理のドメインロジックを提供する。
package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/repository"
	"github.com/hitoshi/fitlife/internal/security"
)

// AddInput は目標追加への入力。種別・範囲の検証はハンドラ境界で完了している前提。
type AddInput struct {
	Type         string
	Description  string
	TargetValue  *float64
	CurrentValue *float64
	Unit         string
	TargetDate   *time.Time
}

// Service は目標のサービス層。
type Service struct {
	repo      repository.GoalRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(repo repository.GoalRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{repo: repo, sanitizer: sanitizer}
}

// List はユーザーの目標一覧を返す。statusが空でない場合は絞り込む。
// 並び順はステータス優先度（active < completed < abandoned）、次にtarget_date昇順。
func (s *Service) List(ctx context.Context, userID int64, status string) ([]model.Goal, error) {
	goals, err := s.repo.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	return goals, nil
}

// Add は目標を追加する。説明と単位は保存前にサニタイズする。
// ステータスはDB側のデフォルトでactiveになる。
func (s *Service) Add(ctx context.Context, userID int64, input AddInput) (*model.Goal, error) {
	goal := &model.Goal{
		UserID:       userID,
		Type:         model.GoalType(input.Type),
		Description:  s.sanitizer.Sanitize(input.Description),
		TargetValue:  input.TargetValue,
		CurrentValue: input.CurrentValue,
		Unit:         s.sanitizer.Sanitize(input.Unit),
		TargetDate:   input.TargetDate,
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to add goal: %w", err)
	}

	return goal, nil
}

// UpdateStatus は目標のステータスを更新する。
// 同一値への更新は冪等に成功する。所有者不一致は0行更新のno-op。
func (s *Service) UpdateStatus(ctx context.Context, userID, goalID int64, status model.GoalStatus) error {
	if err := s.repo.UpdateStatus(ctx, goalID, userID, status); err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}
	return nil
}

// UpdateProgress は目標のcurrent_valueを更新する。所有者不一致はno-op。
func (s *Service) UpdateProgress(ctx context.Context, userID, goalID int64, currentValue float64) error {
	if err := s.repo.UpdateProgress(ctx, goalID, userID, currentValue); err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	return nil
}

// Delete は目標を削除する。所有者不一致は0行削除のno-op。
func (s *Service) Delete(ctx context.Context, userID, goalID int64) error {
	if err := s.repo.DeleteByIDAndUserID(ctx, goalID, userID); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
