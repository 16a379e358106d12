package notifier

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

// TestSMTPNotifier_Notify は送信関数に正しい宛先とメッセージが
// 渡されることを検証する。
func TestSMTPNotifier_Notify(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	n := NewSMTPNotifier(SMTPConfig{
		Host:     "smtp.gmail.com",
		Port:     587,
		From:     "app@example.com",
		Password: "app-password",
	})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	err := n.Notify(context.Background(), "taro@example.com", "New Todo Created", "Hello Taro,")
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if gotAddr != "smtp.gmail.com:587" {
		t.Errorf("addr = %q, want %q", gotAddr, "smtp.gmail.com:587")
	}
	if gotFrom != "app@example.com" {
		t.Errorf("from = %q, want %q", gotFrom, "app@example.com")
	}
	if len(gotTo) != 1 || gotTo[0] != "taro@example.com" {
		t.Errorf("to = %v, want [taro@example.com]", gotTo)
	}

	msg := string(gotMsg)
	if !strings.Contains(msg, "Subject: New Todo Created\r\n") {
		t.Errorf("message should contain subject header, got %q", msg)
	}
	if !strings.Contains(msg, "\r\n\r\nHello Taro,") {
		t.Errorf("message should contain body after blank line, got %q", msg)
	}
}

// TestSMTPNotifier_Notify_SendError は送信失敗がそのままエラーとして
// 返されることを検証する（リトライしない）。
func TestSMTPNotifier_Notify_SendError(t *testing.T) {
	sendCalls := 0
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.gmail.com", Port: 587, From: "app@example.com"})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sendCalls++
		return errors.New("connection refused")
	}

	err := n.Notify(context.Background(), "taro@example.com", "subject", "body")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if sendCalls != 1 {
		t.Errorf("send called %d times, want 1 (no retry)", sendCalls)
	}
}

// TestSMTPNotifier_Notify_RateLimited はレート上限超過時に送信せず
// エラーを返すことを検証する。
func TestSMTPNotifier_Notify_RateLimited(t *testing.T) {
	sendCalls := 0
	n := NewSMTPNotifier(SMTPConfig{
		Host:          "smtp.gmail.com",
		Port:          587,
		From:          "app@example.com",
		RatePerMinute: 1,
	})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sendCalls++
		return nil
	}

	// バースト上限は1通。1通目は成功、2通目は即座に拒否される
	if err := n.Notify(context.Background(), "taro@example.com", "s", "b"); err != nil {
		t.Fatalf("first Notify returned error: %v", err)
	}
	if err := n.Notify(context.Background(), "taro@example.com", "s", "b"); err == nil {
		t.Error("expected rate limit error for second Notify, got nil")
	}
	if sendCalls != 1 {
		t.Errorf("send called %d times, want 1", sendCalls)
	}
}

// TestSMTPNotifier_Notify_CanceledContext はキャンセル済みコンテキストで
// 送信が行われないことを検証する。
func TestSMTPNotifier_Notify_CanceledContext(t *testing.T) {
	sendCalls := 0
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.gmail.com", Port: 587, From: "app@example.com"})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sendCalls++
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.Notify(ctx, "taro@example.com", "s", "b"); err == nil {
		t.Error("expected error for canceled context, got nil")
	}
	if sendCalls != 0 {
		t.Errorf("send called %d times, want 0", sendCalls)
	}
}

// TestBuildMessage はメールメッセージのヘッダーと本文の組み立てを検証する。
func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("app@example.com", "taro@example.com", "件名", "本文です。"))

	wantHeaders := []string{
		"From: app@example.com\r\n",
		"To: taro@example.com\r\n",
		"Subject: 件名\r\n",
		"MIME-Version: 1.0\r\n",
		`Content-Type: text/plain; charset="utf-8"` + "\r\n",
	}
	for _, h := range wantHeaders {
		if !strings.Contains(msg, h) {
			t.Errorf("message should contain header %q", h)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\n本文です。") {
		t.Errorf("message should end with body after blank line, got %q", msg)
	}
}

// TestDisabled_Notify は資格情報未設定時の実装がErrNotConfiguredを返し、
// 呼び出し側が送信スキップを判別できることを検証する。
func TestDisabled_Notify(t *testing.T) {
	n := NewDisabled()
	err := n.Notify(context.Background(), "taro@example.com", "s", "b")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Disabled.Notify = %v, want ErrNotConfigured", err)
	}
}
