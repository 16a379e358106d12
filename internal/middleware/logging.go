package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// loggedUserID は認証ミドルウェアからロギングミドルウェアへ
// ユーザーIDを引き渡すためのホルダー。
// 認証ミドルウェアはロギングより後段で実行され、派生リクエストの
// コンテキストは前段からは見えない。そのため前段で空のホルダーを
// 仕込み、後段が書き込む。書き込みはハンドラー実行前、読み出しは
// ハンドラー完了後に同一ゴルーチンで行う。
type loggedUserID struct {
	id string
}

// loggedUserIDKey はロギング用ホルダーをコンテキストに格納するためのキー。
var loggedUserIDKey = contextKey("logged_user_id")

// setLoggedUserID は前段のロギングミドルウェアが仕込んだホルダーに
// 認証済みユーザーIDを書き込む。ホルダーがない場合は何もしない。
func setLoggedUserID(ctx context.Context, userID string) {
	if holder, ok := ctx.Value(loggedUserIDKey).(*loggedUserID); ok {
		holder.id = userID
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、user_id（認証済みの場合）を含む。
// user_idを記録するには、このミドルウェアが認証ミドルウェアより前段に
// あること。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// 後段の認証ミドルウェアがユーザーIDを書き込むホルダー
			holder := &loggedUserID{}
			r = r.WithContext(context.WithValue(r.Context(), loggedUserIDKey, holder))

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// 認証ミドルウェアを通過したリクエストのみ追加される
			if holder.id != "" {
				attrs = append(attrs, slog.String("user_id", holder.id))
			}

			// slogのログレベルをステータスコードに応じて変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			// slog.Attr をany スライスに変換
			args := make([]any, len(attrs))
			for i, attr := range attrs {
				args[i] = attr
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
