// Package todo はTodoのCRUD操作を提供する。
package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/notifier"
	"github.com/hitoshi/todoman/internal/repository"
)

// NotificationMetrics は通知結果のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type NotificationMetrics interface {
	RecordNotificationSent()
	RecordNotificationFailure()
}

// Service はTodoに関するビジネスロジックを提供する。
// すべての操作はトークンから導出された呼び出し元のユーザーIDで
// スコープされる。リクエストパラメータ由来のユーザーIDは受け取らない。
type Service struct {
	todoRepo repository.TodoRepository
	userRepo repository.UserRepository
	notifier notifier.Notifier
	metrics  NotificationMetrics
}

// NewService はServiceを生成する。
func NewService(
	todoRepo repository.TodoRepository,
	userRepo repository.UserRepository,
	n notifier.Notifier,
	m NotificationMetrics,
) *Service {
	return &Service{
		todoRepo: todoRepo,
		userRepo: userRepo,
		notifier: n,
		metrics:  m,
	}
}

// List は呼び出し元ユーザーの全Todoを作成日時の降順で返す。
// 1件もない場合は空スライスを返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	todos, err := s.todoRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Create はTodoを作成し、所有者にメール通知を試みる。
// タイトルが空の場合はValidationエラーを返す。
// 通知はTodoのINSERTがコミットされた後に行い、通知の失敗・遅延は
// 作成処理の成否に影響しない。
func (s *Service) Create(ctx context.Context, userID, title, description string) (*model.Todo, error) {
	if title == "" {
		return nil, model.NewTitleRequiredError()
	}

	now := time.Now()
	todo := &model.Todo{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	// コミット後のベストエフォート通知。失敗してもリクエストは成功する。
	s.notifyCreated(ctx, todo)

	return todo, nil
}

// Update はTodoを部分更新する。
// パッチに含まれないフィールドは既存の値を維持する。
// 値が変わらないパッチでもUpdatedAtは無条件に更新するが、
// 変更対象フィールドが1つもないパッチはValidationエラーで拒否する。
// 対象が存在しない場合も所有者が異なる場合も同一のNotFoundエラーを返す。
func (s *Service) Update(ctx context.Context, userID, todoID string, patch *model.TodoPatch) (*model.Todo, error) {
	if patch.IsEmpty() {
		return nil, model.NewMissingFieldsError()
	}

	todo, err := s.todoRepo.FindByIDAndUser(ctx, todoID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError(todoID)
	}

	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now()

	found, err := s.todoRepo.Update(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	if !found {
		// FindとUpdateの間に削除された場合
		return nil, model.NewTodoNotFoundError(todoID)
	}

	return todo, nil
}

// Delete はTodoを削除する。
// 対象が存在しない場合も所有者が異なる場合も同一のNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, userID, todoID string) error {
	found, err := s.todoRepo.Delete(ctx, todoID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !found {
		return model.NewTodoNotFoundError(todoID)
	}
	return nil
}

// notifyCreated は所有者にTodo作成の通知メールを送る。
// あらゆる失敗をログに記録して握りつぶす。トランザクションは保持しない。
func (s *Service) notifyCreated(ctx context.Context, todo *model.Todo) {
	user, err := s.userRepo.FindByID(ctx, todo.UserID)
	if err != nil || user == nil {
		slog.Warn("failed to resolve todo owner for notification",
			slog.String("todo_id", todo.ID),
			slog.String("user_id", todo.UserID),
		)
		return
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYou created a new todo:\nTitle: %s\n\nBest,\nTodo App",
		user.Name, todo.Title,
	)

	if err := s.notifier.Notify(ctx, user.Email, "New Todo Created", body); err != nil {
		// 通知が無効化されている場合は送信とも失敗とも数えない
		if errors.Is(err, notifier.ErrNotConfigured) {
			return
		}
		slog.Warn("failed to send notification",
			slog.String("todo_id", todo.ID),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordNotificationFailure()
		return
	}

	s.metrics.RecordNotificationSent()
}
