// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/todoman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。
	// 格納値との大文字小文字を区別した完全一致。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByGoogleID はGoogleのsubクレームでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスまたはgoogle_idの一意制約違反はそのまま返す
	// （IsUniqueViolationで判定できる）。
	Create(ctx context.Context, user *model.User) error
}

// TodoRepository はTodoデータの永続化インターフェース。
// すべての検索・変更クエリはSQLレベルで所有者述語を持ち、
// 呼び出し側から他ユーザーのレコードに到達する手段は存在しない。
type TodoRepository interface {
	// ListByUserID は指定ユーザーの全Todoを作成日時の降順で返す。
	// 1件もない場合は空スライスを返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Todo, error)

	// Create はTodoを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// FindByIDAndUser は指定IDかつ指定所有者のTodoを取得する。
	// 存在しない場合も所有者が異なる場合も同じくnilを返す。
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Todo, error)

	// Update は所有者が一致する場合のみTodoを上書き更新する。
	// 対象行が存在したかを返す。
	Update(ctx context.Context, todo *model.Todo) (bool, error)

	// Delete は所有者が一致する場合のみTodoを削除する。
	// 対象行が存在したかを返す。
	Delete(ctx context.Context, id, userID string) (bool, error)
}
