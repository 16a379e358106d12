package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword はbcryptでソルト付きパスワードハッシュを生成する。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードと格納済みハッシュを定数時間比較する。
// storedHashが空（Google認証のみのアカウント）の場合は必ずfalseを返す。
func VerifyPassword(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
