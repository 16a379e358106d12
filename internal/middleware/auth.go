// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenValidator はベアラートークン検証のインターフェース。
// token.Issuerの部分集合として定義する。
type TokenValidator interface {
	// Validate はトークンを検証し、subjectのユーザーIDを返す。
	Validate(tokenString string) (string, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証する
// ミドルウェアを返す。検証済みユーザーIDをリクエストコンテキストに注入し、
// ハンドラー到達前に認可スコープを確定させる。
// トークンが欠落・不正・期限切れの場合は401でショートサーキットし、
// ハンドラーロジックは一切実行されない。
func NewAuthMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				WriteUnauthorized(w)
				return
			}

			// 2. 署名と有効期限を検証
			userID, err := validator.Validate(tokenString)
			if err != nil {
				WriteUnauthorized(w)
				return
			}

			// 3. 検証済みユーザーIDをコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			// アクセスログにuser_idを載せるため前段のホルダーにも書き込む
			setLoggedUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken はAuthorizationヘッダーからトークン部分を取り出す。
// Bearerスキーム以外・ヘッダー欠落の場合は空文字を返す。
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
