// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはローカルパスワード認証用で、Google認証のみの
// アカウントでは空。GoogleIDはGoogle IDトークンのsubクレームで、
// ローカルパスワードのみのアカウントでは空。
// 少なくとも一方の認証手段を持つことをストア側のCHECK制約で保証する。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // Google認証のみの場合は空
	GoogleID     string // ローカルパスワードのみの場合は空
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword はローカルパスワード認証が設定されているかを返す。
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
