package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"
)

// SMTPConfig はSMTP通知の設定。
type SMTPConfig struct {
	Host     string
	Port     int
	From     string // 送信元アドレス兼SMTP認証ユーザー
	Password string

	// RatePerMinute は送信レートの上限（通/分）。
	// タスク作成の連打で送信元アカウントを溢れさせないための制限。
	RatePerMinute int
}

// SMTPNotifier はSMTP（STARTTLS + PLAIN認証）でメールを送信する。
type SMTPNotifier struct {
	config  SMTPConfig
	limiter *rate.Limiter

	// send はテスト用に差し替え可能な送信関数。
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier はSMTPNotifierを生成する。
func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	perMinute := config.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	return &SMTPNotifier{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		send:    smtp.SendMail,
	}
}

// Notify はメールを1回だけ送信する。
// レート上限を超えた場合は送信せずエラーを返す（通知はベストエフォートのため
// 待機はしない）。送信失敗もそのままエラーとして返し、リトライはしない。
func (n *SMTPNotifier) Notify(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notification canceled: %w", err)
	}

	if !n.limiter.Allow() {
		return fmt.Errorf("notification rate limit exceeded")
	}

	msg := buildMessage(n.config.From, to, subject, body)
	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	auth := smtp.PlainAuth("", n.config.From, n.config.Password, n.config.Host)

	if err := n.send(addr, auth, n.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildMessage はプレーンテキストのメールメッセージを組み立てる。
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// compile-time interface check
var _ Notifier = (*SMTPNotifier)(nil)
