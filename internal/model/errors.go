// Package model はドメインモデルを定義する。
package model

import "fmt"

// ErrorKind はAPIエラーの分類を表す。
// ハンドラー層でHTTPステータスコードへのマッピングに使用する。
type ErrorKind string

const (
	// ErrorKindValidation は入力不備を表す（400）。
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindConflict は一意制約違反を表す（409）。
	ErrorKindConflict ErrorKind = "conflict"
	// ErrorKindAuth は認証失敗を表す（401）。
	ErrorKindAuth ErrorKind = "auth"
	// ErrorKindNotFound はリソース未検出を表す（404）。
	// 所有者が異なる場合も同一のエラーを返し、存在の有無を漏らさない。
	ErrorKindNotFound ErrorKind = "not_found"
)

// APIError は統一エラーフォーマットを表す。
// サービス層はエラー分類を値として返し、ハンドラー層が
// ステータスコードへ変換する。分類外のエラーはすべて500として扱う。
type APIError struct {
	Kind    ErrorKind // エラー分類
	Code    string    // エラーコード
	Message string    // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingFields      = "MISSING_FIELDS"
	ErrCodeTitleRequired      = "TITLE_REQUIRED"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeGoogleAuthFailed   = "GOOGLE_AUTH_FAILED"
	ErrCodeTodoNotFound       = "TODO_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
)

// NewMissingFieldsError は必須フィールド不足エラーを生成する。
func NewMissingFieldsError() *APIError {
	return &APIError{
		Kind:    ErrorKindValidation,
		Code:    ErrCodeMissingFields,
		Message: "必須フィールドが不足しています。",
	}
}

// NewTitleRequiredError はタイトル未指定エラーを生成する。
func NewTitleRequiredError() *APIError {
	return &APIError{
		Kind:    ErrorKindValidation,
		Code:    ErrCodeTitleRequired,
		Message: "タイトルは必須です。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Kind:    ErrorKindConflict,
		Code:    ErrCodeEmailTaken,
		Message: "このメールアドレスは既に登録されています。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー不在・パスワードハッシュ不在・パスワード不一致のいずれでも
// 同一のエラーを返し、ユーザー列挙を防ぐ。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Kind:    ErrorKindAuth,
		Code:    ErrCodeInvalidCredentials,
		Message: "メールアドレスまたはパスワードが正しくありません。",
	}
}

// NewInvalidTokenError はトークン検証失敗エラーを生成する。
// 署名不正・形式不正・期限切れを区別しない。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Kind:    ErrorKindAuth,
		Code:    ErrCodeInvalidToken,
		Message: "認証トークンが無効です。",
	}
}

// NewGoogleAuthFailedError はGoogle IDトークン検証失敗エラーを生成する。
func NewGoogleAuthFailedError() *APIError {
	return &APIError{
		Kind:    ErrorKindAuth,
		Code:    ErrCodeGoogleAuthFailed,
		Message: "Googleトークンの検証に失敗しました。",
	}
}

// NewTodoNotFoundError はTodo未検出エラーを生成する。
// 他ユーザー所有のTodoに対しても同一のエラーを返す。
func NewTodoNotFoundError(todoID string) *APIError {
	return &APIError{
		Kind:    ErrorKindNotFound,
		Code:    ErrCodeTodoNotFound,
		Message: fmt.Sprintf("指定されたTodoが見つかりません: %s", todoID),
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Kind:    ErrorKindNotFound,
		Code:    ErrCodeUserNotFound,
		Message: "ユーザーが見つかりません。",
	}
}
