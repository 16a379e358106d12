package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/todoman/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したTodoリポジトリ。
// 全クエリが所有者述語（user_id）を持つ。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// ListByUserID は指定ユーザーの全Todoを作成日時の降順で返す。
// 1件もない場合は空スライスを返す。
func (r *PostgresTodoRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM todos
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*model.Todo{}
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(
			&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
			&todo.Completed, &todo.CreatedAt, &todo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// Create はTodoを作成する。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (id, user_id, title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		todo.ID, todo.UserID, todo.Title, todo.Description,
		todo.Completed, todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

// FindByIDAndUser は指定IDかつ指定所有者のTodoを取得する。
// 存在しない場合も所有者が異なる場合も同じくnilを返す。
func (r *PostgresTodoRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, completed, created_at, updated_at
		 FROM todos
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
		&todo.Completed, &todo.CreatedAt, &todo.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}

// Update は所有者が一致する場合のみTodoを上書き更新する。
// 単一のUPDATE文で実行し、同時更新は後勝ちとなる。対象行が存在したかを返す。
func (r *PostgresTodoRepo) Update(ctx context.Context, todo *model.Todo) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE todos
		 SET title = $1, description = $2, completed = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6`,
		todo.Title, todo.Description, todo.Completed, todo.UpdatedAt,
		todo.ID, todo.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Delete は所有者が一致する場合のみTodoを削除する。対象行が存在したかを返す。
func (r *PostgresTodoRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
