// Package notifier はタスク作成時のメール通知を提供する。
//
// 通知はベストエフォートの副作用であり、配送保証は持たない。
// キューも再送もなく、失敗は呼び出し側でログに記録して握りつぶす。
package notifier

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNotConfigured はメール資格情報が未設定で送信をスキップしたことを示す。
// 呼び出し側はこのエラーを送信失敗として扱わない。
var ErrNotConfigured = errors.New("mail notifier is not configured")

// Notifier はメール通知送信のインターフェース。
type Notifier interface {
	// Notify は1回だけ送信を試みる。リトライは行わない。
	Notify(ctx context.Context, to, subject, body string) error
}

// Disabled はメール資格情報が未設定の場合に使用する通知実装。
// 送信せずログのみ記録する。
type Disabled struct{}

// NewDisabled はDisabledを生成する。
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Notify は何も送信せずErrNotConfiguredを返す。
func (n *Disabled) Notify(ctx context.Context, to, subject, body string) error {
	slog.Info("email credentials not configured, skipping notification",
		slog.String("subject", subject),
	)
	return ErrNotConfigured
}

// compile-time interface check
var _ Notifier = (*Disabled)(nil)
