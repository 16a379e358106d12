// Package model はドメインモデルを定義する。
package model

import "time"

// Todo はユーザーが所有するタスクを表す。
// UserIDは作成時に確定し、以後変更されない。
// 所有者以外からは参照も変更もできない。
type Todo struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time // 作成時に1回だけ設定
	UpdatedAt   time.Time // 変更のたびに更新
}

// TodoPatch はTodoの部分更新を表す。
// nilのフィールドは変更せず、既存の値を維持する。
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty はパッチに変更対象フィールドが1つもないかを返す。
// 空のパッチは更新として受け付けない。
func (p *TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
